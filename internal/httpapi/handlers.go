package httpapi

import (
	"net/http"
	"strings"

	"github.com/mrz1836/customizer/internal/customize"
	"github.com/mrz1836/customizer/internal/domain"
	cerrors "github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/modulegroup"
)

var errMissingFields = cerrors.NewValidationError(cerrors.ErrMissingParameters, []string{"Missing required fields"})

type paramsRequest struct {
	Params *domain.ConfigParams `json:"params"`
}

type updateConfigRequest struct {
	Params   *domain.ConfigParams `json:"params"`
	Config   string               `json:"config"`
	Codesets string               `json:"codesets"`
}

type chatRequest struct {
	Message string               `json:"message"`
	Params  *domain.ConfigParams `json:"params"`
	History []domain.ChatMessage `json:"history,omitempty"`
}

type finalizeRequest struct {
	ConversationHistory []domain.ChatMessage `json:"conversationHistory"`
	Params              *domain.ConfigParams `json:"params"`
}

type confirmRequest struct {
	Confirmed      bool                 `json:"confirmed"`
	Params         *domain.ConfigParams `json:"params"`
	ProposedConfig *customize.Snapshot  `json:"proposedConfig"`
}

func (s *Server) handleCheckConfig(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exists, err := s.svc.CheckConfig(r.Context(), q.Get("org_key"), q.Get("module_key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (s *Server) handleLoadConfig(w http.ResponseWriter, r *http.Request) {
	var req paramsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Params == nil {
		s.writeError(w, r, errMissingFields)
		return
	}

	result, err := s.svc.Load(r.Context(), *req.Params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req updateConfigRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Params == nil {
		s.writeError(w, r, errMissingFields)
		return
	}

	info, err := s.svc.Apply(r.Context(), *req.Params, req.Config, req.Codesets)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "commit": info})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" || req.Params == nil {
		s.writeError(w, r, errMissingFields)
		return
	}

	reply, err := s.svc.Chat(r.Context(), req.Message, *req.Params, req.History...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "response": reply})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req paramsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Params == nil {
		s.writeError(w, r, errMissingFields)
		return
	}

	summary, err := s.svc.Summary(r.Context(), *req.Params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "summary": summary})
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	var req finalizeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Params == nil {
		s.writeError(w, r, errMissingFields)
		return
	}

	result, err := s.svc.Finalize(r.Context(), req.ConversationHistory, *req.Params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"currentConfig":   result.CurrentConfig,
		"proposedConfig":  result.ProposedConfig,
		"codesetsChanged": result.CodesetsChanged,
		"groupSync":       result.Commit.GroupSync,
		"warnings":        result.Commit.Warnings,
	})
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !req.Confirmed || req.Params == nil || req.ProposedConfig == nil {
		s.writeError(w, r, errMissingFields)
		return
	}

	info, err := s.svc.Apply(r.Context(), *req.Params, req.ProposedConfig.Config, req.ProposedConfig.Codesets)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Configuration changes applied successfully",
		"groupSync": info.GroupSync,
	})
}

func (s *Server) handleModules(w http.ResponseWriter, r *http.Request) {
	if t := r.URL.Query().Get("type"); t != "" {
		writeJSON(w, http.StatusOK, map[string]any{"type": t, "modules": modulegroup.ModulesByType(t)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"modules": modulegroup.Catalog(),
		"byType":  modulegroup.LabelsByType(),
	})
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("moduleKey")
	if s.groups == nil {
		writeJSON(w, http.StatusOK, map[string]any{"moduleKey": key, "grouped": false})
		return
	}

	summary, ok := s.groups.Summary(domain.ConfigParams{ModuleKey: key})
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"moduleKey": key, "grouped": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"moduleKey": key, "grouped": true, "group": summary})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
