package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-share/backend/internal/mocks"
	"github.com/pageza/recipe-share/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testToken = "valid-token"

// newAuthMock accepts testToken as user u1
func newAuthMock() *mocks.MockAuthService {
	m := &mocks.MockAuthService{}
	m.On("ValidateToken", testToken).Return(&types.TokenClaims{UserID: "u1", Username: "ChefAnna"}, nil).Maybe()
	return m
}

type multipartFile struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, file *multipartFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.filename+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withToken(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testToken)
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func httpGet(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}
