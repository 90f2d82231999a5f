package backend

import (
	"bytes"
	"context"

	"marketspace/internal/models"
)

// UploadProductImages sends every pending image for a product in a single
// multipart request: a product_id field plus one repeated images field per
// file. Persisted attachments in the slice are skipped.
func (c *Client) UploadProductImages(ctx context.Context, token, productID string, images []models.ImageAttachment) ([]models.ProductImage, error) {
	var stored []models.ProductImage

	req := c.request(token).
		SetContext(ctx).
		SetResult(&stored).
		SetFormData(map[string]string{"product_id": productID})

	for _, img := range images {
		if !img.New {
			continue
		}
		req.SetMultipartField("images", img.FileName, img.ContentType, bytes.NewReader(img.Data))
	}

	resp, err := req.Post("/products/images")
	if err := wrap(resp, err, "upload product images"); err != nil {
		return nil, err
	}

	return stored, nil
}

// DeleteProductImages removes persisted images by ID.
func (c *Client) DeleteProductImages(ctx context.Context, token string, imageIDs []string) error {
	resp, err := c.request(token).
		SetContext(ctx).
		SetBody(map[string][]string{"productImagesIds": imageIDs}).
		Delete("/products/images")
	return wrap(resp, err, "delete product images")
}
