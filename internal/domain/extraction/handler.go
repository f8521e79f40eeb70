package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sintrom-ocr/internal/middleware"
	"sintrom-ocr/internal/ports/ocr"

	"github.com/go-chi/chi/v5"
)

const (
	DefaultMaxUploadBytes = 20 << 20
	multipartMemory       = 8 << 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WorkbookWriter escribe un Analysis como libro Excel.
type WorkbookWriter interface {
	WriteWorkbook(w io.Writer, a Analysis) error
}

type HandlerOptions struct {
	MaxUploadBytes int64
	Workbook       WorkbookWriter // opcional; sin él ?formato=xlsx devuelve 406
}

func RegisterRoutes(r chi.Router, svc *Service, opts HandlerOptions) {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}

	r.Route("/extraccion", func(er chi.Router) {
		er.Post("/", extractHandler(svc, opts))

		// Reprocesar un resultado de Document Intelligence ya obtenido
		er.Post("/resultado", extractFromResultHandler(svc, opts))
	})
}

type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

type headerResponse struct {
	DataInforme   *string `json:"dataInforme"`
	INR           *string `json:"inr"`
	Farmaco       *string `json:"farmaco"`
	DoseSemanal   *string `json:"doseSemanal"`
	ProximaVisita *string `json:"proximaVisita"`
	Centro        *string `json:"centro"`
}

type doseDayResponse struct {
	Data           string  `json:"data"` // YYYY-MM-DD
	Dia            int     `json:"dia"`
	Dose           *string `json:"dose"` // null sólo en CONTROL
	Accion         Action  `json:"accion"`
	EControl       bool    `json:"eControl"`
	DiaSemanaTexto string  `json:"diaSemanaTexto"`
}

type historyItemResponse struct {
	Data           *string `json:"data"`
	INR            *string `json:"inr"`
	Farmaco        *string `json:"farmaco"`
	Dose           *string `json:"dose"`
	APTTInyectable *string `json:"apttInyectable"`
	DoseInyectable *string `json:"doseInyectable"`
	ProximaVisita  *string `json:"proximaVisita"`
	Comentarios    *string `json:"comentarios"`
}

type metadataResponse struct {
	ConfianzaGlobal float64 `json:"confianzaGlobal"`
	Modelo          string  `json:"modelo"`
	IDAnalise       string  `json:"idAnalise,omitempty"`
}

type analysisResponse struct {
	Cabeceira  headerResponse        `json:"cabeceira"`
	Calendario []doseDayResponse     `json:"calendario"`
	Historico  []historyItemResponse `json:"historico"`
	Metadatos  metadataResponse      `json:"metadatos"`
}

// extractHandler godoc
// @Summary      Iniciar a extracción de datos do informe de Sintrom
// @Description  Recibe unha imaxe ou PDF dun informe de Sintrom, analízaa con Azure Document Intelligence e devolve os datos estruturados
// @Tags         extraccion
// @Accept       multipart/form-data
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        file     formData  file    true   "Imaxe ou PDF do informe (JPEG, PNG, HEIC ou PDF)"
// @Param        formato  query     string  false  "json (default) ou xlsx"
// @Success      200  {object}  extraction.analysisResponse
// @Failure      400  {object}  extraction.errorResponse  "Documento non lexible ou datos non fiables"
// @Failure      413  {object}  extraction.errorResponse  "Ficheiro demasiado grande"
// @Failure      422  {object}  extraction.errorResponse  "Falta o ficheiro"
// @Failure      500  {object}  extraction.errorResponse  "Erro interno"
// @Failure      502  {object}  extraction.errorResponse  "Erro no servizo de análise"
// @Router       /extraccion/ [post]
func extractHandler(svc *Service, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, opts.MaxUploadBytes)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "O ficheiro é demasiado grande", "too_large")
				return
			}
			writeError(w, http.StatusUnprocessableEntity, "Formulario multipart inválido", "invalid_form")
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Falta o ficheiro (campo file)", "missing_file")
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Non se puido ler o ficheiro", "unreadable_file")
			return
		}
		if len(content) == 0 {
			writeError(w, http.StatusBadRequest, "O ficheiro está baleiro", "empty_file")
			return
		}

		a, err := svc.Analyze(r.Context(), ocr.Input{
			Content:     content,
			ContentType: header.Header.Get("Content-Type"),
			Filename:    header.Filename,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		respond(w, r, opts, a)
	}
}

// extractFromResultHandler godoc
// @Summary      Procesar un resultado de análise xa obtido
// @Description  Recibe o JSON de analyzeResults de Document Intelligence (operación completa ou analyzeResult) e devolve os datos estruturados
// @Tags         extraccion
// @Accept       json
// @Produce      json
// @Param        formato  query  string  false  "json (default) ou xlsx"
// @Success      200  {object}  extraction.analysisResponse
// @Failure      400  {object}  extraction.errorResponse
// @Failure      413  {object}  extraction.errorResponse
// @Failure      500  {object}  extraction.errorResponse
// @Router       /extraccion/resultado [post]
func extractFromResultHandler(svc *Service, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, opts.MaxUploadBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "O resultado é demasiado grande", "too_large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid body", "invalid_body")
			return
		}

		a, err := svc.AnalyzeResult(r.Context(), raw)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		respond(w, r, opts, a)
	}
}

func respond(w http.ResponseWriter, r *http.Request, opts HandlerOptions, a Analysis) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("formato")))
	switch format {
	case "", "json":
		writeJSON(w, http.StatusOK, toAnalysisResponse(a))
	case "xlsx":
		if opts.Workbook == nil {
			writeError(w, http.StatusNotAcceptable, "Exportación xlsx non dispoñible", "xlsx_unavailable")
			return
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sintrom-%s.xlsx"`, a.Metadata.AnalysisID))
		w.WriteHeader(http.StatusOK)
		if err := opts.Workbook.WriteWorkbook(w, a); err != nil {
			middleware.Logger(r.Context()).Error("xlsx export failed", map[string]any{"error": err})
		}
	default:
		writeError(w, http.StatusBadRequest, "formato debe ser json ou xlsx", "invalid_format")
	}
}

// writeServiceError traduce errores del servicio a status + {detail, code}.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if rj, ok := AsRejection(err); ok {
		writeError(w, http.StatusBadRequest, rj.Detail, string(rj.Kind))
		return
	}
	switch {
	case errors.Is(err, ocr.ErrInvalidResult):
		writeError(w, http.StatusBadRequest, "O resultado de análise non ten o formato esperado", "invalid_result")
	case errors.Is(err, ocr.ErrUpstream):
		writeError(w, http.StatusBadGateway, "Erro ao comunicarse co servizo de análise de documentos de Azure", "upstream_error")
	case errors.Is(err, ocr.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "Servizo Azure non dispoñible", "not_configured")
	default:
		middleware.Logger(r.Context()).Error("unexpected extraction error", map[string]any{"error": err})
		writeError(w, http.StatusInternalServerError, "Erro interno do servidor ao procesar a imaxe", "internal_error")
	}
}

func toAnalysisResponse(a Analysis) analysisResponse {
	out := analysisResponse{
		Cabeceira: headerResponse{
			DataInforme:   a.Header.ReportDate,
			INR:           a.Header.INR,
			Farmaco:       a.Header.Drug,
			DoseSemanal:   a.Header.WeeklyDose,
			ProximaVisita: a.Header.NextVisit,
			Centro:        a.Header.Center,
		},
		Calendario: make([]doseDayResponse, 0, len(a.Calendar)),
		Historico:  make([]historyItemResponse, 0, len(a.History)),
		Metadatos: metadataResponse{
			ConfianzaGlobal: a.Metadata.Confidence,
			Modelo:          a.Metadata.Model,
			IDAnalise:       a.Metadata.AnalysisID,
		},
	}
	for _, ev := range a.Calendar {
		out.Calendario = append(out.Calendario, doseDayResponse{
			Data:           ev.Date.Format(layoutISO),
			Dia:            ev.Day,
			Dose:           ev.Dose,
			Accion:         ev.Action,
			EControl:       ev.IsControl,
			DiaSemanaTexto: ev.Weekday,
		})
	}
	for _, h := range a.History {
		out.Historico = append(out.Historico, historyItemResponse{
			Data:           h.Date,
			INR:            h.INR,
			Farmaco:        h.Drug,
			Dose:           h.WeeklyDose,
			APTTInyectable: h.InjectableType,
			DoseInyectable: h.InjectableDose,
			ProximaVisita:  h.NextVisit,
			Comentarios:    h.Comments,
		})
	}
	return out
}

func writeError(w http.ResponseWriter, status int, detail, code string) {
	writeJSON(w, status, errorResponse{Detail: detail, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
