package doguda

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"go.uber.org/zap"
)

// DefaultPrefix is the route prefix used when none is given.
const DefaultPrefix = "/v1/doguda"

// Routes builds the HTTP surface: one POST route per registered command at
// {prefix}/{command-name}. Request bodies are validated against the
// synthesized input schema before the invocation engine runs, so a handler
// never sees a payload that does not match its visible signature.
//
// Validation failures answer 422, malformed JSON 400, handler failures 500.
// None of them disturb the server itself.
func (a *App) Routes(prefix string) http.Handler {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	prefix = strings.TrimSuffix(prefix, "/")

	mux := http.NewServeMux()
	a.addRoutes(mux, prefix)
	return mux
}

func (a *App) addRoutes(mux *http.ServeMux, prefix string) {
	for _, name := range a.Commands() {
		cmd := a.commands[name]
		resolved, err := a.inputSchema(cmd).Resolve(nil)
		if err != nil {
			// The synthesizer only emits structural schemas; failing to
			// resolve one is a bug in the synthesizer itself.
			panic(fmt.Sprintf("input schema for command %q does not resolve: %v", name, err))
		}
		mux.Handle(prefix+"/"+name, a.commandHandler(cmd, resolved))
	}
}

func (a *App) commandHandler(cmd *command, schema *jsonschema.Resolved) http.Handler {
	// Only the parameters the input schema exposes may arrive from the wire.
	// Everything else is dropped before invocation, so a body naming a
	// provider-backed parameter cannot displace its provider.
	visible := map[string]bool{}
	for _, p := range cmd.params {
		if !a.providedByTable(p.paramType) {
			visible[p.name] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "cannot read request body")
			return
		}

		payload := map[string]any{}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				writeError(w, http.StatusBadRequest, "request body is not a JSON object")
				return
			}
		}

		if err := schema.Validate(payload); err != nil {
			a.logger.Debug("request body failed validation",
				zap.String("command", cmd.name),
				zap.Error(err),
			)
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		supplied := make(map[string]any, len(payload))
		for k, v := range payload {
			if visible[k] {
				supplied[k] = v
			}
		}

		result, err := a.Invoke(r.Context(), cmd.name, supplied)
		if err != nil {
			a.logger.Error("command failed",
				zap.String("command", cmd.name),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			a.logger.Error("response encoding failed",
				zap.String("command", cmd.name),
				zap.Error(err),
			)
		}
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": message})
}
