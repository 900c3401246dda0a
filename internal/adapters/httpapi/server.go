package httpapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/club-subscriptions/internal/app/imports"
	"github.com/Overland-East-Bay/club-subscriptions/internal/domain"
	"github.com/Overland-East-Bay/club-subscriptions/internal/ports/out/idempotency"
	"github.com/Overland-East-Bay/club-subscriptions/internal/rowsource"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	createImportRoute    = "/imports"

	defaultMaxUploadBytes = 10 << 20
)

// Server is the HTTP adapter over the imports service.
type Server struct {
	Imports *imports.Service
	Idem    idempotency.Store

	// MaxUploadBytes caps the request body of POST /imports.
	MaxUploadBytes int64
	Logger         *slog.Logger
}

func NewServer(importsSvc *imports.Service, idem idempotency.Store) *Server {
	return &Server{
		Imports:        importsSvc,
		Idem:           idem,
		MaxUploadBytes: defaultMaxUploadBytes,
	}
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// CreateImport handles POST /imports. The body is the raw export; its format comes from
// ?format= when given, otherwise the Content-Type header or the source file extension.
func (s *Server) CreateImport(w http.ResponseWriter, r *http.Request) {
	var params CreateImportParams
	if err := runtime.BindQueryParameter("form", true, false, "schema", r.URL.Query(), &params.Schema); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "invalid schema parameter", map[string]any{"param": "schema"})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "source", r.URL.Query(), &params.Source); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "invalid source parameter", map[string]any{"param": "source"})
		return
	}
	var schema, source string
	if params.Schema != nil {
		schema = strings.TrimSpace(*params.Schema)
	}
	if params.Source != nil {
		source = strings.TrimSpace(*params.Source)
	}
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &params.Format); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "invalid format parameter", map[string]any{"param": "format"})
		return
	}
	format := rowsource.Detect(source, r.Header.Get("Content-Type"))
	if params.Format != nil {
		f, err := rowsource.ParseFormat(*params.Format)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "format must be csv or xlsx", map[string]any{
				"param":   "format",
				"allowed": []rowsource.Format{rowsource.FormatCSV, rowsource.FormatXLSX},
			})
			return
		}
		format = f
	}

	limit := s.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "upload exceeds the size limit", map[string]any{"limitBytes": mbe.Limit})
			return
		}
		writeError(w, r, http.StatusBadRequest, "MALFORMED_FILE", "cannot read request body", nil)
		return
	}

	// Replay if same key+route+bodyHash; reject the same key with a different upload (409).
	key := idempotency.Key(strings.TrimSpace(r.Header.Get(idempotencyKeyHeader)))
	bodyHash := hashUpload(schema, source, format, body)
	metaFP := idempotency.Fingerprint{Key: key, Method: http.MethodPost, Route: createImportRoute}
	respFP := metaFP
	respFP.BodyHash = bodyHash
	useIdem := s.Idem != nil && key != ""
	if useIdem {
		if meta, ok, err := s.Idem.Get(r.Context(), metaFP); err != nil {
			s.writeServiceError(w, r, err)
			return
		} else if ok {
			if string(meta.Body) != bodyHash {
				writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
				return
			}
		} else {
			_ = s.Idem.Put(r.Context(), metaFP, idempotency.Record{
				StatusCode:  0,
				ContentType: "text/plain",
				Body:        []byte(bodyHash),
				CreatedAt:   time.Now().UTC(),
			})
		}

		if rec, ok, err := s.Idem.Get(r.Context(), respFP); err != nil {
			s.writeServiceError(w, r, err)
			return
		} else if ok && rec.StatusCode == http.StatusCreated && strings.HasPrefix(rec.ContentType, "application/json") {
			var replay CreateImportResponse
			if err := json.Unmarshal(rec.Body, &replay); err == nil {
				w.Header().Set("Location", importLocation(domain.ImportID(replay.Import.ImportId)))
				writeJSONBytes(w, rec.StatusCode, rec.Body)
				return
			}
		}
	}

	sum, err := s.Imports.Import(r.Context(), imports.ImportInput{
		Source: source,
		Format: format,
		Schema: schema,
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	b, err := encodeJSON(CreateImportResponse{Import: importSummaryFromDomain(sum)})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	// The stored record holds the exact bytes sent, so a replay is identical.
	if useIdem {
		_ = s.Idem.Put(r.Context(), respFP, idempotency.Record{
			StatusCode:  http.StatusCreated,
			ContentType: "application/json",
			Body:        b,
			CreatedAt:   time.Now().UTC(),
		})
	}

	w.Header().Set("Location", importLocation(sum.ID))
	writeJSONBytes(w, http.StatusCreated, b)
}

func importLocation(id domain.ImportID) string {
	return createImportRoute + "/" + string(id)
}

func (s *Server) ListImports(w http.ResponseWriter, r *http.Request) {
	list, err := s.Imports.ListImports(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]ImportSummary, 0, len(list))
	for _, sum := range list {
		out = append(out, importSummaryFromDomain(sum))
	}
	writeJSON(w, http.StatusOK, ListImportsResponse{Imports: out})
}

func (s *Server) GetImport(w http.ResponseWriter, r *http.Request) {
	id, ok := bindImportID(w, r)
	if !ok {
		return
	}
	sum, err := s.Imports.GetImport(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GetImportResponse{Import: importSummaryFromDomain(sum)})
}

func (s *Server) ListImportSubscriptions(w http.ResponseWriter, r *http.Request) {
	id, ok := bindImportID(w, r)
	if !ok {
		return
	}
	subs, err := s.Imports.ListSubscriptions(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]Subscription, 0, len(subs))
	for _, sub := range subs {
		out = append(out, subscriptionFromDomain(sub))
	}
	writeJSON(w, http.StatusOK, ListImportSubscriptionsResponse{ImportId: string(id), Subscriptions: out})
}

func bindImportID(w http.ResponseWriter, r *http.Request) (domain.ImportID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "importId", chi.URLParam(r, "importId"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "importId must be a UUID", map[string]any{"param": "importId"})
		return "", false
	}
	return domain.ImportID(id.String()), true
}

func hashUpload(schema, source string, format rowsource.Format, body []byte) string {
	h := sha256.New()
	for _, part := range []string{schema, source, string(format)} {
		_, _ = h.Write([]byte(part))
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
