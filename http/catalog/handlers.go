package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/enum"
	"github.com/xy-planning-network/enum/http/middleware"
	"github.com/xy-planning-network/enum/http/req"
	"github.com/xy-planning-network/enum/logger"
	"github.com/xy-planning-network/enum/snapshot"
)

type route struct {
	path    string
	method  string
	handler http.HandlerFunc
}

func (s *Server) routes() []route {
	return []route{
		{"/types", http.MethodGet, s.listTypes},
		{"/types/{name}", http.MethodGet, s.getType},
		{"/decode", http.MethodGet, s.decode},
		{"/parse", http.MethodGet, s.parse},
		{"/validate", http.MethodPost, s.validate},
	}
}

// A TypeInfo describes one Type of the catalog.
type TypeInfo struct {
	Name     string       `json:"name"`
	Parent   string       `json:"parent,omitempty"`
	Abstract bool         `json:"abstract"`
	Policy   *enum.Policy `json:"policy,omitempty"`
	Subtypes []string     `json:"subtypes,omitempty"`

	// Snapshot holds the values of a concrete Type; only set when requesting the Type by name.
	Snapshot *snapshot.Snapshot `json:"snapshot,omitempty"`
}

// A ValueInfo describes one decoded value.
type ValueInfo struct {
	Type    string          `json:"type"`
	Name    string          `json:"name,omitempty"`
	Token   string          `json:"token"`
	String  string          `json:"string"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// A TokenResult reports whether one token of a validate request is valid.
type TokenResult struct {
	Token string `json:"token"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type decodeParams struct {
	Token string `schema:"token" validate:"required"`
	Type  string `schema:"type"`
}

type parseParams struct {
	Name string `schema:"name" validate:"required"`
	Type string `schema:"type"`
}

type validateBody struct {
	Tokens []string `json:"tokens" validate:"required,min=1,max=256,dive,required"`
}

func infoOf(t *enum.Type) TypeInfo {
	info := TypeInfo{Name: t.Name(), Abstract: t.IsAbstract()}
	if p := t.Parent(); p != nil {
		info.Parent = p.Name()
	}

	if !t.IsAbstract() {
		policy := t.Policy()
		info.Policy = &policy
	}

	for _, sub := range t.Subtypes() {
		info.Subtypes = append(info.Subtypes, sub.Name())
	}

	return info
}

func valueOf(v enum.Instance) ValueInfo {
	info := ValueInfo{
		Type:   v.Type().Name(),
		Name:   v.Name(),
		Token:  v.Token(),
		String: v.String(),
	}

	// NOTE: payloads JSON cannot represent, such as maps keyed by structs, are left out.
	if b, err := json.Marshal(v.PayloadAny()); err == nil {
		info.Payload = b
	}

	return info
}

// listTypes responds with every Type in the catalog.
func (s *Server) listTypes(w http.ResponseWriter, r *http.Request) {
	types := enum.Types()
	infos := make([]TypeInfo, 0, len(types))
	for _, t := range types {
		infos = append(infos, infoOf(t))
	}

	s.json(w, r, http.StatusOK, infos)
}

// getType responds with the Type named in the path along with a snapshot of its values.
func (s *Server) getType(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	t, ok := enum.Lookup(name)
	if !ok {
		s.err(w, r, fmt.Errorf("%w: type %q", enum.ErrNotFound, name))
		return
	}

	info := infoOf(t)
	if !t.IsAbstract() {
		snap, err := snapshot.Take(t)
		if err != nil {
			s.err(w, r, err)
			return
		}

		info.Snapshot = &snap
	}

	s.json(w, r, http.StatusOK, info)
}

// decode responds with the value the "token" query param represents.
// The optional "type" query param names the Type expected;
// without it, any Type is accepted.
// Tokens of dynamic Types are never interned here: a payload the process has not
// interned responds 404.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) {
	var params decodeParams
	if err := s.parser.ParseQueryParams(r.URL.Query(), &params); err != nil {
		s.err(w, r, err)
		return
	}

	codec, expected, err := s.expect(params.Type)
	if err != nil {
		s.err(w, r, err)
		return
	}

	v, err := codec.Peek(params.Token, expected)
	if err == nil && v == nil {
		err = fmt.Errorf("%w: %s has not been interned", enum.ErrNotFound, params.Token)
	}

	if err != nil {
		s.err(w, r, err)
		return
	}

	s.json(w, r, http.StatusOK, valueOf(v))
}

// parse responds with the member the "name" query param names.
// The optional "type" query param names the Type expected;
// without it, any Type is accepted and "name" must be qualified by its Type.
func (s *Server) parse(w http.ResponseWriter, r *http.Request) {
	var params parseParams
	if err := s.parser.ParseQueryParams(r.URL.Query(), &params); err != nil {
		s.err(w, r, err)
		return
	}

	codec, expected, err := s.expect(params.Type)
	if err != nil {
		s.err(w, r, err)
		return
	}

	v, err := codec.ParseName(params.Name, expected)
	if err != nil {
		s.err(w, r, err)
		return
	}

	s.json(w, r, http.StatusOK, valueOf(v))
}

// validate responds with whether each token in the request body represents a value.
// Tokens naming Types this process does not declare are checked against
// the snapshot.Store, when one is configured.
func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	var body validateBody
	if err := s.parser.ParseBody(r.Body, &body); err != nil {
		s.err(w, r, err)
		return
	}

	results := make([]TokenResult, 0, len(body.Tokens))
	for _, tok := range body.Tokens {
		res := TokenResult{Token: tok, Valid: true}
		if err := s.check(r, tok); err != nil {
			res.Valid = false
			res.Error = err.Error()
		}

		results = append(results, res)
	}

	s.json(w, r, http.StatusOK, results)
}

// check validates tok against the Type it names.
// A well-formed token of a dynamic Type is valid whether or not its payload was interned,
// and checking it interns nothing.
func (s *Server) check(r *http.Request, tok string) error {
	name, _, err := enum.SplitToken(tok)
	if err != nil {
		return err
	}

	t, ok := enum.Lookup(name)
	if !ok && s.store != nil {
		return snapshot.Validate(r.Context(), s.store, tok)
	}

	if !ok {
		return fmt.Errorf("%w: type %q", enum.ErrNotFound, name)
	}

	_, err = s.codec.Peek(tok, t)
	return err
}

// expect resolves the Type named by typeName along with the codec to decode it with.
// Without typeName, every Type descending from enum.Root is accepted.
func (s *Server) expect(typeName string) (enum.Codec, *enum.Type, error) {
	if typeName == "" {
		return enum.Codec{AllowSubtypes: true}, enum.Root, nil
	}

	t, ok := enum.Lookup(typeName)
	if !ok {
		return s.codec, nil, fmt.Errorf("%w: type %q", enum.ErrNotFound, typeName)
	}

	return s.codec, t, nil
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.err(w, r, fmt.Errorf("%w: no route for %s %s", enum.ErrNotFound, r.Method, r.URL.Path))
}

type jsonSchema struct {
	D any    `json:"data,omitempty"`
	E string `json:"error,omitempty"`

	Validation []req.ValidationError `json:"validationErrors,omitempty"`
}

// json writes data as the response body.
func (s *Server) json(w http.ResponseWriter, r *http.Request, code int, data any) {
	s.write(w, r, code, jsonSchema{D: data})
}

// err writes the status code err maps to along with its message.
func (s *Server) err(w http.ResponseWriter, r *http.Request, err error) {
	payload := jsonSchema{E: err.Error()}

	var ve req.ValidationErrors
	if errors.As(err, &ve) {
		payload.Validation = ve
	}

	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		s.l.Error(err.Error(), &logger.LogContext{
			Data:    map[string]any{"request_id": middleware.GetRequestID(r.Context())},
			Error:   err,
			Request: r,
		})
	}

	s.write(w, r, code, payload)
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, code int, payload jsonSchema) {
	b := new(bytes.Buffer)
	if err := json.NewEncoder(b).Encode(payload); err != nil {
		s.l.Error(err.Error(), &logger.LogContext{Error: err, Request: r})
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	if r.Method != http.MethodHead {
		w.Write(b.Bytes())
	}
}

// statusOf maps the sentinel errors of the enum module to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, req.ErrNotValid),
		errors.Is(err, req.ErrBadFormat),
		errors.Is(err, req.ErrBadAny),
		errors.Is(err, enum.ErrInvalidArgument),
		errors.Is(err, enum.ErrInvalidConstruction):
		return http.StatusBadRequest

	case errors.Is(err, enum.ErrNotFound),
		errors.Is(err, snapshot.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, enum.ErrInvalidValue),
		errors.Is(err, enum.ErrInvalidOperation),
		errors.Is(err, snapshot.ErrNotMember):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusInternalServerError
	}
}
