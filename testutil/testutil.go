// Package testutil holds helpers shared by package tests: a throwaway SQLite
// store, a configured router and request/response shortcuts.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/qaboard/config"
	"github.com/cppla/qaboard/models"
	"github.com/cppla/qaboard/routes"
)

// Envelope mirrors the JSON shape every endpoint answers with.
type Envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Body    json.RawMessage `json:"body"`
}

// Config returns defaults pointed at a fresh SQLite file under t.TempDir, with
// logging quietened.
func Config(t *testing.T) config.AppConfig {
	t.Helper()

	cfg := config.Defaults()
	cfg.GinMode = "test"
	cfg.GinPath = ""
	cfg.LogLevel = "error"
	cfg.DBDriver = config.DriverSQLite
	cfg.DatabaseURI = filepath.Join(t.TempDir(), "test.db")
	cfg.RedisHost = ""
	return cfg
}

// OpenDB opens the store described by cfg and closes it when the test ends.
func OpenDB(t *testing.T, cfg config.AppConfig) *gorm.DB {
	t.Helper()

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SetupRouter installs cfg (after applying mutate) as the process config and
// returns a router over a fresh store.
func SetupRouter(t *testing.T, mutate ...func(*config.AppConfig)) (*gin.Engine, *gorm.DB) {
	t.Helper()

	cfg := Config(t)
	for _, m := range mutate {
		m(&cfg)
	}
	prev := config.Get()
	config.Set(cfg)
	t.Cleanup(func() { config.Set(prev) })

	db := OpenDB(t, cfg)
	return routes.SetupRouter(db), db
}

// CreateQuestion inserts a question directly and returns it.
func CreateQuestion(t *testing.T, db *gorm.DB, title, description, category string) models.Question {
	t.Helper()

	q := models.Question{Title: title, Description: description, Category: category}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return q
}

// CreateAnswer inserts an answer directly and returns it.
func CreateAnswer(t *testing.T, db *gorm.DB, questionID uint, content string) models.Answer {
	t.Helper()

	a := models.Answer{QuestionID: questionID, Content: content}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("Failed to create test answer: %v", err)
	}
	return a
}

// MakeRequest creates an HTTP test request. A string or []byte body is sent
// verbatim; anything else is JSON encoded.
func MakeRequest(method, path string, body interface{}) *http.Request {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	case []byte:
		r = bytes.NewReader(b)
	default:
		encoded, _ := json.Marshal(b)
		r = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// Do serves one request against h.
func Do(h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, MakeRequest(method, path, body))
	return rec
}

// DecodeEnvelope parses the response body as an Envelope.
func DecodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to parse response %q: %v", rec.Body.String(), err)
	}
	return env
}

// Decode unmarshals raw into v.
func Decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("Failed to parse payload %q: %v", string(raw), err)
	}
}
