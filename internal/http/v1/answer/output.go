package answer

// GetOutput wraps Data as the response body.
type GetOutput struct {
	Body Data
}
