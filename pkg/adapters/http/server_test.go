package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/justschema"
	"github.com/aretw0/justschema/pkg/model"
	"github.com/aretw0/justschema/pkg/schema"
)

func newEngine(t *testing.T, opts ...justschema.Option) *justschema.Engine {
	t.Helper()
	eng := justschema.New(opts...)
	_, err := eng.Define(context.Background(),
		model.Model("Role", "",
			model.Field("name", model.Prim("string"),
				model.WithSchema(schema.Must(schema.String(schema.MinLength(2))))),
		),
		model.Model("Actor", "A person that can play movie characters",
			model.Field("name", model.Prim("string")),
			model.Field("role", model.Ref("Role")),
		),
	)
	require.NoError(t, err)
	return eng
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_ListModels(t *testing.T) {
	h := NewHandler(newEngine(t))

	w := do(t, h, "GET", "/models", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got ModelList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{"Role", "Actor"}, got.Models)
}

func TestServer_ShowSchema(t *testing.T) {
	h := NewHandler(newEngine(t))

	w := do(t, h, "GET", "/models/Actor", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/schema+json", w.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Actor", doc["title"])
	assert.Contains(t, doc["definitions"], "Role")

	w = do(t, h, "GET", "/models/Actor?format=yaml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "title: Actor")

	w = do(t, h, "GET", "/models/Ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Ghost")
}

func TestServer_Validate(t *testing.T) {
	h := NewHandler(newEngine(t))

	t.Run("valid", func(t *testing.T) {
		w := do(t, h, "POST", "/models/Actor/validate", `{"name":"Ann","role":{"name":"lead"}}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp ValidationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Valid)
		assert.Empty(t, resp.Errors)
	})

	t.Run("violations", func(t *testing.T) {
		w := do(t, h, "POST", "/models/Actor/validate", `{"name":"Ann","role":{"name":"x"}}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp ValidationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Valid)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "role.name", resp.Errors[0].Path)
	})

	t.Run("batch", func(t *testing.T) {
		w := do(t, h, "POST", "/models/Role/validate", `[{"name":"lead"},{"name":"x"},{}]`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp ValidationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Errors, 2)
	})

	t.Run("bad body", func(t *testing.T) {
		w := do(t, h, "POST", "/models/Role/validate", `{not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown model", func(t *testing.T) {
		w := do(t, h, "POST", "/models/Ghost/validate", `{}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_InfoAndSpec(t *testing.T) {
	h := NewHandler(newEngine(t))

	w := do(t, h, "GET", "/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, justschema.Version, info["version"])
	assert.Equal(t, apiVersion, info["api_version"])

	w = do(t, h, "GET", "/openapi.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	var spec map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &spec))
	paths := spec["paths"].(map[string]any)
	assert.Contains(t, paths, "/models")
	assert.Contains(t, paths, "/models/{model}")
	assert.Contains(t, paths, "/models/{model}/validate")

	w = do(t, h, "OPTIONS", "/models", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("justschema_validations_total 1\n"))
	})
	h := NewHandler(newEngine(t), WithMetricsHandler(metrics))

	w := do(t, h, "GET", "/metrics", "")
	assert.Contains(t, w.Body.String(), "justschema_validations_total")
}

func TestSubscribeEvents(t *testing.T) {
	streams := NewStreamManager()
	eng := newEngine(t, justschema.WithLifecycleHooks(streams.Hooks()))
	srv := httptest.NewServer(NewHandler(eng, WithStreams(streams)))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events?type=validation", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)
	_, _ = reader.ReadString('\n') // data: connected
	_, _ = reader.ReadString('\n') // blank

	// The subscription is registered before the ping is written.
	require.NoError(t, eng.ValidateRaw(ctx, "Role", map[string]any{"name": "lead"}))

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "data: "))
	assert.Contains(t, line, `"type":"validation"`)
	assert.Contains(t, line, `"model":"Role"`)
}

func TestStreamManager_Unsubscribe(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe()
	sm.Broadcast("one")
	assert.Equal(t, "one", <-ch)

	cancel()
	_, open := <-ch
	assert.False(t, open)
	cancel()
	sm.Broadcast("two")
}
