package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quesarte/queseria-api/internal/domain"
)

func respondErrorBody(t *testing.T, err error) (int, string) {
	t.Helper()
	app := fiber.New()
	app.Get("/recurso/:id", func(c *fiber.Ctx) error {
		return respondError(c, err)
	})
	req := httptest.NewRequest(http.MethodGet, "/recurso/123", nil)
	resp, reqErr := app.Test(req, -1)
	require.NoError(t, reqErr)
	defer resp.Body.Close()
	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)
	return resp.StatusCode, string(body)
}

// Un fallo de infraestructura no expone el detalle del driver al cliente.
func TestRespondError_InternoSanitizado(t *testing.T) {
	raw := fmt.Errorf("query unit: %w",
		errors.New(`ERROR: relation "units" does not exist (SQLSTATE 42P01)`))

	status, body := respondErrorBody(t, raw)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body, "INTERNAL")
	assert.NotContains(t, body, "SQLSTATE")
	assert.NotContains(t, body, "relation")
}

// Los errores de dominio sí conservan su mensaje (ej. cuántos dependientes
// bloquean un borrado).
func TestRespondError_DominioConservaMensaje(t *testing.T) {
	wrapped := fmt.Errorf("%w: 3 unidades activas", domain.ErrHasDependencies)

	status, body := respondErrorBody(t, wrapped)

	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body, "HAS_DEPENDENCIES")
	assert.Contains(t, body, "3 unidades activas")
}

func TestRespondError_LockTimeout(t *testing.T) {
	status, body := respondErrorBody(t, domain.ErrLockTimeout)

	assert.Equal(t, http.StatusLocked, status)
	assert.Contains(t, body, "LOCK_TIMEOUT")
}
