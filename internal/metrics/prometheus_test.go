package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitEHandler(t *testing.T) {
	assert.NotPanics(t, Init)
	assert.NotPanics(t, Init)

	AnswersTotal.WithLabelValues("basic", "summary").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `traffic_assistant_answers_total{intent="summary",mode="basic"}`))
}
