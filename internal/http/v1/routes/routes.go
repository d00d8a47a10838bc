package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/answer-api/internal/http/v1/answer"
)

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API) {
	answer.Register(api)
}
