package models

// ImageAttachment is an image on an ad form: either a locally supplied file
// still pending upload, or one the backend already persisted.
type ImageAttachment struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	New  bool   `json:"new"`

	// Pending uploads carry the file payload with its reported size.
	// Persisted images leave these zero.
	FileName    string `json:"-"`
	ContentType string `json:"-"`
	Size        int64  `json:"-"`
	Data        []byte `json:"-"`
}

// FromProductImages converts persisted backend images into attachments so an
// edit form can diff them against newly picked files.
func FromProductImages(images []ProductImage) []ImageAttachment {
	attachments := make([]ImageAttachment, 0, len(images))
	for _, img := range images {
		attachments = append(attachments, ImageAttachment{ID: img.ID, Path: img.Path})
	}
	return attachments
}
