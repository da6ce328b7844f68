package csvimport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/2beens/practicetrack/internal/telemetry/tracing"
	"github.com/2beens/practicetrack/pkg"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const maxUploadedFileSize = 10 << 20 // 10 MB

type importRunner interface {
	Import(ctx context.Context, reader io.Reader) (*Report, error)
}

// Handler accepts a csv file upload and feeds it to the importer.
type Handler struct {
	importer   importRunner
	statsCache *freecache.Cache
}

func NewHandler(importer importRunner, statsCache *freecache.Cache) *Handler {
	return &Handler{
		importer:   importer,
		statsCache: statsCache,
	}
}

func (handler *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.csvimport.import")
	defer span.End()

	if err := r.ParseMultipartForm(maxUploadedFileSize); err != nil {
		log.Errorf("import sessions, parse multipart form: %s", err)
		http.Error(w, "internal error or file too big", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		http.Error(w, "error, csv file missing", http.StatusBadRequest)
		return
	}

	file, err := files[0].Open()
	if err != nil {
		log.Errorf("import sessions, open uploaded file: %s", err)
		http.Error(w, "failed to open uploaded file", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warnf("import sessions, close uploaded file: %s", err)
		}
	}()

	report, err := handler.importer.Import(ctx, file)
	if err != nil {
		log.Errorf("import sessions: %s", err)
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}

	if report.Imported > 0 && handler.statsCache != nil {
		handler.statsCache.Clear()
	}

	respJson, err := json.Marshal(report)
	if err != nil {
		log.Errorf("import sessions, marshal report: %s", err)
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("csv import done: %s", respJson)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
