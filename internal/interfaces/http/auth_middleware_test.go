package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/oleotech/frantoio-api/internal/interfaces/http"
	pkgjwt "github.com/oleotech/frantoio-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helper di test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testUserID     = "00000000-0000-0000-0000-000000000001"
	testTenantCode = "frantoio_rossi"
	testIssuer     = "frantoio-pro-test"
	testExpMin     = 60
)

// buildTestApp costruisce un'applicazione Fiber minima con:
//   - AuthMiddleware per il parse del JWT e il caricamento dei locals
//   - RequireRole per autorizzare l'accesso
//   - Un handler fittizio che risponde 200 se passa i middleware
func buildTestApp(ruoliAmmessi ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		// Silenzia gli errori interni nei test
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(ruoliAmmessi...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenPerRuolo genera un JWT con il ruolo indicato.
func tokenPerRuolo(t *testing.T, ruolo string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantCode, ruolo, testIssuer, testExpMin)
	require.NoError(t, err, "deve generarsi un token JWT valido")
	return "Bearer " + tok
}

// doRequest lancia una richiesta GET /protected e restituisce la risposta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Test RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRottaAdmin(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, tokenPerRuolo(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin deve poter accedere alla rotta riservata ad admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"], "la risposta deve includere ok:true")
	assert.Equal(t, "admin", body["role"], "il ruolo deve essere admin")
}

func TestRequireRole_OperatoreAccedeRottaMultiRuolo(t *testing.T) {
	app := buildTestApp("admin", "operatore")
	resp := doRequest(t, app, tokenPerRuolo(t, "operatore"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"operatore deve poter accedere alla rotta che ammette admin o operatore")
}

func TestRequireRole_ConsultazioneBloccataSuRottaOperativa(t *testing.T) {
	app := buildTestApp("admin", "operatore")
	resp := doRequest(t, app, tokenPerRuolo(t, "consultazione"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"consultazione non deve poter scrivere sul registro")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN",
		"la risposta di errore deve includere il codice FORBIDDEN")
}

func TestRequireRole_TokenSenzaRuolo_Ritorna401(t *testing.T) {
	app := buildTestApp("admin")
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantCode, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"token senza ruolo deve ritornare 401")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE",
		"la risposta deve indicare il codice MISSING_ROLE")
}

func TestRequireRole_SenzaAuthHeader_Ritorna401(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_TokenInvalido_Ritorna401(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, "Bearer token.invalido.qui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Test AuthMiddleware — estrazione dei claim dal token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_EstraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":     apphttp.GetUserID(c),
			"tenant_code": apphttp.GetTenantCode(c),
			"role":        apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenPerRuolo(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testTenantCode, body["tenant_code"])
	assert.Equal(t, "admin", body["role"])
}

func TestAuthMiddleware_TokenSenzaTenant_Ritorna401(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"un token senza tenant non deve superare il middleware")
}

// ──────────────────────────────────────────────────────────────────────────────
// Test pkg/jwt — integrità di generate/parse con role
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantCode, "operatore", testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, tenantCode, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testTenantCode, tenantCode)
	assert.Equal(t, "operatore", role)
}

func TestJWT_TokenScaduto_RitornaErrore(t *testing.T) {
	// Token con scadenza -1 minuto (già scaduto)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantCode, "admin", testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token scaduto deve ritornare errore")
}

func TestJWT_SecretErrato_RitornaErrore(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantCode, "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("altro-secret", tok)
	assert.Error(t, err, "firma con secret errato deve ritornare errore")
}
