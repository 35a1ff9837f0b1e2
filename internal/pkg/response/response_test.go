package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c fiber.Ctx) error { return Success(c, fiber.StatusAccepted, "", fiber.Map{"id": 1}) })
	app.Get("/bad", func(c fiber.Ctx) error { return Error(c, 42, "", nil) })

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{path: "/ok", status: fiber.StatusAccepted, message: MessageAccepted},
		{path: "/bad", status: fiber.StatusInternalServerError, message: MessageInternalServerError},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)

		var out SemanticResponse
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, tt.status, resp.StatusCode)
		assert.Equal(t, tt.status, out.Status)
		assert.Equal(t, tt.message, out.Message)
	}
}

func TestDefaultMessage(t *testing.T) {
	assert.Equal(t, MessageBadGateway, DefaultMessage(fiber.StatusBadGateway))
	assert.Equal(t, MessageError, DefaultMessage(fiber.StatusTeapot))
}
