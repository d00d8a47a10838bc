package answer

// Value is the answer returned by every request.
const Value = 42

// Data is the response payload for the root endpoint.
type Data struct {
	Data int `json:"data" doc:"The answer" example:"42"`
}
