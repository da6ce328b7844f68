package csvimport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/practicetrack/internal/csvimport"
	"github.com/2beens/practicetrack/internal/practice"

	"github.com/coocood/freecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newMultipartRequest(t *testing.T, fieldName, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldName, "sessions.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/practice/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandler_HandleImport(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMocksessionsRepo(ctrl)
	statsCache := freecache.NewCache(1024 * 1024)
	require.NoError(t, statsCache.Set([]byte("stats"), []byte("stale"), 60))

	handler := csvimport.NewHandler(csvimport.NewImporter(repoMock), statsCache)

	repoMock.EXPECT().
		Add(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, s practice.Session) (*practice.Session, error) {
			return &s, nil
		}).Times(2)

	csvContent := "started_at,duration_seconds,note\n" +
		"2025-03-08T10:00:00Z,3600,scales\n" +
		"2025-03-09T18:30:00Z,1800\n" +
		"broken-row,600\n"

	req := newMultipartRequest(t, "file", csvContent)
	rr := httptest.NewRecorder()
	handler.HandleImport(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var report csvimport.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Skipped)

	// stats cache cleared after a successful import
	_, err := statsCache.Get([]byte("stats"))
	assert.ErrorIs(t, err, freecache.ErrNotFound)
}

func TestHandler_HandleImport_MissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMocksessionsRepo(ctrl)
	handler := csvimport.NewHandler(csvimport.NewImporter(repoMock), freecache.NewCache(1024*1024))

	req := newMultipartRequest(t, "not-the-file-field", "started_at,duration_seconds\n")
	rr := httptest.NewRecorder()
	handler.HandleImport(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "csv file missing")
}

func TestHandler_HandleImport_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMocksessionsRepo(ctrl)
	statsCache := freecache.NewCache(1024 * 1024)
	require.NoError(t, statsCache.Set([]byte("stats"), []byte("fresh"), 60))

	handler := csvimport.NewHandler(csvimport.NewImporter(repoMock), statsCache)

	repoMock.EXPECT().
		Add(gomock.Any(), gomock.Any()).
		Return(nil, assert.AnError)

	req := newMultipartRequest(t, "file", "2025-03-08T10:00:00Z,3600\n")
	rr := httptest.NewRecorder()
	handler.HandleImport(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	// nothing imported, cache untouched
	cached, err := statsCache.Get([]byte("stats"))
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), cached)
}
