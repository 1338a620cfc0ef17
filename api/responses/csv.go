package responses

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/AIforimpact22/bootcampx/pkg/logger"
)

// WriteCSV renders into a buffer first so a failed render still yields a
// JSON error instead of a truncated download.
func WriteCSV(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, filename string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		WriteError(ctx, logg, w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil && logg != nil {
		logg.WarnErr(ctx, "write csv response", err)
	}
}
