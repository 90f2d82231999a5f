package backend

import (
	"bytes"
	"context"
)

// SignIn exchanges credentials for a token and the account it belongs to.
func (c *Client) SignIn(ctx context.Context, email, password string) (*SessionResult, error) {
	var result SessionResult

	resp, err := c.request("").
		SetContext(ctx).
		SetBody(map[string]string{
			"email":    email,
			"password": password,
		}).
		SetResult(&result).
		Post("/sessions")
	if err := wrap(resp, err, "sign in"); err != nil {
		return nil, err
	}

	return &result, nil
}

// CreateUser registers a new account. The avatar, when present, rides along
// as a multipart file field exactly as the backend expects.
func (c *Client) CreateUser(ctx context.Context, input CreateUserInput) error {
	req := c.request("").SetContext(ctx)

	if input.Avatar != nil {
		req.SetFormData(map[string]string{
			"name":     input.Name,
			"email":    input.Email,
			"tel":      input.Tel,
			"password": input.Password,
		})
		req.SetMultipartField("avatar", input.Avatar.FileName, input.Avatar.ContentType, bytes.NewReader(input.Avatar.Data))
	} else {
		req.SetBody(map[string]string{
			"name":     input.Name,
			"email":    input.Email,
			"tel":      input.Tel,
			"password": input.Password,
		})
	}

	resp, err := req.Post("/users")
	return wrap(resp, err, "create user")
}
