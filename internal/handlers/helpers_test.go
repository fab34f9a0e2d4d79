// helpers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"course_quest/internal/handlers"
	"course_quest/internal/middleware"
	"course_quest/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// httpResponseExpectations はHTTPレスポンスの検証に必要な期待値をまとめます。
type httpResponseExpectations struct {
	ExpectedCode     int
	ExpectedErrorMsg string
}

// newTestServer はモックサービスを差し込んだハンドラ群でテストサーバーを起動します。
// 認証は X-User-ID / X-User-Role ヘッダーで行います。
func newTestServer(t *testing.T, h *handlers.Handlers) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware(logger))
	handlers.RegisterRoutes(r, h, middleware.DevPrincipalMiddleware)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

// principalHeaders は開発用認証ヘッダーを返します。
func principalHeaders(userID uuid.UUID, role model.Role) map[string]string {
	return map[string]string{
		"X-User-ID":   userID.String(),
		"X-User-Role": string(role),
	}
}

// sendRequest はHTTPリクエストを送信し、基本的なレスポンス情報を返します。
// ステータスコードのアサーションもここで行います。
func sendRequest(t *testing.T, server *httptest.Server, details httpRequestDetails, expectations httpResponseExpectations) (int, []byte) {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		if strPayload, ok := details.Body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")

	if details.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	assert.Equal(t, expectations.ExpectedCode, resp.StatusCode, "Status code mismatch")

	respBodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	verifyErrorResponse(t, respBodyBytes, expectations.ExpectedErrorMsg)
	return resp.StatusCode, respBodyBytes
}

// verifyErrorResponse はエラーレスポンスのメッセージに期待する文字列が含まれるか検証します。
func verifyErrorResponse(t *testing.T, bodyBytes []byte, expectedErrorMsgPart string) {
	t.Helper()
	if expectedErrorMsgPart == "" {
		return
	}

	var errResp model.APIErrorResponse
	if err := json.Unmarshal(bodyBytes, &errResp); err == nil && errResp.Error.Message != "" {
		assert.Contains(t, errResp.Error.Message, expectedErrorMsgPart)
		return
	}
	assert.Contains(t, string(bodyBytes), expectedErrorMsgPart)
}

// decodeJSON はレスポンスボディを v にデコードします。
func decodeJSON(t *testing.T, body []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body, v), "raw body: %s", string(body))
}
