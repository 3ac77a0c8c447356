package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniCatalog/internal/analytics"
	"MiniCatalog/pkg/kit"
)

const (
	maxJSONBody         = 1 << 20
	multipartMemory     = 8 << 20
	defaultMaxUpload    = 10 << 20
	greeting            = "Hello from the catalog service!"
	msgFieldsRequired   = "All fields except image are required."
	msgCreateFailed     = "Server error while adding product."
	msgProductNotFound  = "Product not found"
	msgInvalidStock     = "invalid stock"
	msgUploadTooLarge   = "image too large"
	msgUnreadableUpload = "bad form"
)

type Server struct {
	Store   Store
	Assets  *AssetStore
	Metrics *Metrics
	Log     *zap.Logger

	// Rand drives the analytics jitter and must be safe for concurrent use.
	// Nil uses the global generator.
	Rand analytics.Source

	MaxUploadBytes int64
	CreateLimiter  *kit.IPRateLimiter
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			s.logWarn("readyz failed", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/message", s.message)

		ar.Get("/products", s.list)
		ar.Get("/products/{id}", s.get)
		ar.Put("/products/{id}", s.updateStock)
		if s.CreateLimiter != nil {
			ar.With(s.CreateLimiter.Middleware).Post("/products", s.create)
		} else {
			ar.Post("/products", s.create)
		}

		ar.Get("/analytics/revenue", s.revenue)
	})

	if s.Assets != nil {
		r.Handle(UploadsPath+"/*", s.Assets.Handler())
	}

	return r
}

func (s *Server) message(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]string{"message": greeting})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		s.logError("list products failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, msgProductNotFound, nil)
		return
	}

	p, found, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.logError("get product failed", zap.Error(err), zap.Int64("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, msgProductNotFound, map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	in, up, err := s.readCreateRequest(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			kit.WriteError(w, r, http.StatusRequestEntityTooLarge, msgUploadTooLarge, map[string]any{"limit": tooLarge.Limit})
			return
		}
		kit.WriteError(w, r, http.StatusBadRequest, msgUnreadableUpload, map[string]any{"cause": err.Error()})
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if up != nil {
		defer up.file.Close()
	}

	p, err := ParseCreateInput(in)
	if err != nil {
		s.writeCreateError(w, r, err)
		return
	}

	p.Image = PlaceholderImage
	if up != nil && s.Assets != nil {
		url, n, err := s.Assets.Save(up.file, up.header.Filename)
		if err != nil {
			s.writeCreateError(w, r, err)
			return
		}
		s.Metrics.uploaded(n)
		p.Image = url
	}

	created, err := s.Store.Create(r.Context(), p)
	if err != nil {
		s.writeCreateError(w, r, err)
		return
	}

	s.Metrics.productCreated()
	kit.WriteJSON(w, http.StatusCreated, created)
}

func (s *Server) writeCreateError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		kit.WriteError(w, r, http.StatusBadRequest, msgFieldsRequired, map[string]any{
			"field":  ve.Field,
			"reason": ve.Reason,
		})
		return
	}

	s.logError("add product failed", zap.Error(err))
	kit.WriteError(w, r, http.StatusInternalServerError, msgCreateFailed, nil)
}

type upload struct {
	file   multipart.File
	header *multipart.FileHeader
}

// readCreateRequest accepts multipart forms (with an optional "image" file),
// JSON objects and urlencoded forms.
func (s *Server) readCreateRequest(w http.ResponseWriter, r *http.Request) (CreateInput, *upload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload())
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return CreateInput{}, nil, err
		}
		in := formInput(r)

		f, h, err := r.FormFile("image")
		if errors.Is(err, http.ErrMissingFile) {
			return in, nil, nil
		}
		if err != nil {
			return CreateInput{}, nil, err
		}
		return in, &upload{file: f, header: h}, nil

	case "application/json":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		var m map[string]any
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			return CreateInput{}, nil, err
		}
		return CreateInputFromMap(m), nil, nil

	default:
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := r.ParseForm(); err != nil {
			return CreateInput{}, nil, err
		}
		return formInput(r), nil, nil
	}
}

func formInput(r *http.Request) CreateInput {
	return CreateInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		Stock:       r.FormValue("stock"),
		Category:    r.FormValue("category"),
	}
}

func (s *Server) updateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, msgProductNotFound, nil)
		return
	}

	if _, found, err := s.Store.Get(r.Context(), id); err != nil {
		s.logError("get product failed", zap.Error(err), zap.Int64("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	} else if !found {
		kit.WriteError(w, r, http.StatusNotFound, msgProductNotFound, map[string]any{"id": id})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	raw, present := body["stock"]
	if !present || raw == nil {
		kit.WriteError(w, r, http.StatusBadRequest, msgInvalidStock, map[string]any{"reason": "required"})
		return
	}
	stock, err := ParseStock(raw)
	if err != nil {
		var ve *ValidationError
		reason := err.Error()
		if errors.As(err, &ve) {
			reason = ve.Reason
		}
		kit.WriteError(w, r, http.StatusBadRequest, msgInvalidStock, map[string]any{"reason": reason})
		return
	}

	p, err := s.Store.UpdateStock(r.Context(), id, stock)
	if errors.Is(err, ErrNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, msgProductNotFound, map[string]any{"id": id})
		return
	}
	if err != nil {
		s.logError("update stock failed", zap.Error(err), zap.Int64("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	s.Metrics.stockUpdated()
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) revenue(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		s.logError("list products failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	items := make([]analytics.Item, 0, len(products))
	for _, p := range products {
		items = append(items, analytics.Item{Category: p.Category, Price: p.Price, Stock: p.Stock})
	}

	category := r.URL.Query().Get("category")
	s.Metrics.estimated(category != "")
	kit.WriteJSON(w, http.StatusOK, analytics.Estimate(items, category, s.Rand))
}

func productID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (s *Server) maxUpload() int64 {
	if s.MaxUploadBytes > 0 {
		return s.MaxUploadBytes
	}
	return defaultMaxUpload
}

func (s *Server) logError(msg string, fields ...zap.Field) {
	if s.Log != nil {
		s.Log.Error(msg, fields...)
	}
}

func (s *Server) logWarn(msg string, fields ...zap.Field) {
	if s.Log != nil {
		s.Log.Warn(msg, fields...)
	}
}
