package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/resolve"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/store"
)

// handleCreateSession starts a resolution run. An optional token in the
// body replays a previous run into the new session.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req ReplayRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation,
				"invalid JSON in request body", map[string]interface{}{"cause": err.Error()})
			return
		}
	}

	var actions []resolve.Action
	if req.Token != "" {
		var err error
		actions, err = resolve.DecodeActions(req.Token)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, ErrTypeBadToken,
				"malformed share token", map[string]interface{}{"cause": err.Error()})
			return
		}
	}

	h := s.newSession()
	h.with(func(sess *resolve.Session) {
		for _, a := range actions {
			sess.Apply(a)
		}
		s.writeJSON(w, http.StatusCreated, SessionResponse{
			SessionID: h.id,
			Update:    currentUpdate(sess),
			Token:     sess.Token(),
		})
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	h, ok := s.session(w, r)
	if !ok {
		return
	}
	h.with(func(sess *resolve.Session) {
		s.writeJSON(w, http.StatusOK, SessionResponse{
			SessionID: h.id,
			Update:    currentUpdate(sess),
			Token:     sess.Token(),
		})
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	h, ok := s.session(w, r)
	if !ok {
		return
	}
	s.sessions.remove(h.id)
	w.WriteHeader(http.StatusNoContent)
}

// handleAssertFact applies one observation. Vocabulary violations are 400s;
// out-of-order or inconsistent assertions are engine no-ops and return the
// unchanged state, mirroring a click the UI ignores.
func (s *Server) handleAssertFact(w http.ResponseWriter, r *http.Request) {
	h, ok := s.session(w, r)
	if !ok {
		return
	}

	var req FactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation,
			"invalid JSON in request body", map[string]interface{}{"cause": err.Error()})
		return
	}

	apply, errMsg := factAction(req)
	if errMsg != "" {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidFact, errMsg,
			map[string]interface{}{"kind": req.Kind})
		return
	}

	h.with(func(sess *resolve.Session) {
		upd := apply(sess)
		s.writeJSON(w, http.StatusOK, SessionResponse{
			SessionID: h.id,
			Update:    upd,
			Token:     sess.Token(),
		})
	})
}

// factAction validates a fact request and returns the session call it maps
// to, or a non-empty error message.
func factAction(req FactRequest) (func(*resolve.Session) resolve.Update, string) {
	switch resolve.FactKind(req.Kind) {
	case resolve.FactMapType:
		if req.MapType == "" {
			return nil, "map_type is required"
		}
		return func(s *resolve.Session) resolve.Update { return s.AssertMapType(req.MapType) }, ""

	case resolve.FactSlot:
		slot := catalog.SlotID(req.Slot)
		if !catalog.ValidSlotID(slot) {
			return nil, "unknown slot id"
		}
		b := catalog.Building(req.Building)
		if !catalog.ValidBuilding(b) {
			return nil, "unknown building tag"
		}
		return func(s *resolve.Session) resolve.Update { return s.AssertSlot(slot, b) }, ""

	case resolve.FactBoss:
		b := catalog.Boss(req.Boss)
		if !catalog.ValidBoss(b) {
			return nil, "unknown boss tag"
		}
		return func(s *resolve.Session) resolve.Update { return s.AssertBoss(b) }, ""

	case resolve.FactSpawn:
		slot := catalog.SlotID(req.Slot)
		if req.Slot != "" && !catalog.ValidSlotID(slot) {
			return nil, "unknown slot id"
		}
		return func(s *resolve.Session) resolve.Update { return s.AssertSpawn(slot) }, ""
	}
	return nil, "unknown fact kind"
}

func (s *Server) handleRetract(w http.ResponseWriter, r *http.Request) {
	h, ok := s.session(w, r)
	if !ok {
		return
	}

	var req RetractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation,
			"invalid JSON in request body", map[string]interface{}{"cause": err.Error()})
		return
	}
	slot := catalog.SlotID(req.Slot)
	if !catalog.ValidSlotID(slot) {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidFact, "unknown slot id", nil)
		return
	}

	h.with(func(sess *resolve.Session) {
		upd := sess.Retract(slot)
		s.writeJSON(w, http.StatusOK, SessionResponse{
			SessionID: h.id,
			Update:    upd,
			Token:     sess.Token(),
		})
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	h, ok := s.session(w, r)
	if !ok {
		return
	}
	h.with(func(sess *resolve.Session) {
		upd := sess.Undo()
		s.writeJSON(w, http.StatusOK, SessionResponse{
			SessionID: h.id,
			Update:    upd,
			Token:     sess.Token(),
		})
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	h, ok := s.session(w, r)
	if !ok {
		return
	}
	h.with(func(sess *resolve.Session) {
		upd := sess.Restart()
		s.writeJSON(w, http.StatusOK, SessionResponse{
			SessionID: h.id,
			Update:    upd,
			Token:     sess.Token(),
		})
	})
}

// handleOptions enumerates assertable values for one dimension
// (?dimension=slot&slot=NN or ?dimension=boss), ghost included.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	h, ok := s.session(w, r)
	if !ok {
		return
	}

	dimension := r.URL.Query().Get("dimension")
	switch dimension {
	case "slot":
		slot := catalog.SlotID(r.URL.Query().Get("slot"))
		if !catalog.ValidSlotID(slot) {
			s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "unknown slot id", nil)
			return
		}
		h.with(func(sess *resolve.Session) {
			opts := sess.SlotOptions(slot)
			ghost, _ := resolve.SlotGhost(s.cat, sess.Facts(), slot)
			resp := OptionsResponse{Dimension: "slot", Slot: string(slot), Ghost: string(ghost)}
			for _, b := range opts {
				resp.Options = append(resp.Options, string(b))
			}
			s.writeJSON(w, http.StatusOK, resp)
		})

	case "boss":
		h.with(func(sess *resolve.Session) {
			opts := sess.BossOptions()
			ghost, _ := resolve.BossGhost(s.cat, sess.Facts())
			resp := OptionsResponse{Dimension: "boss", Ghost: string(ghost)}
			for _, b := range opts {
				resp.Options = append(resp.Options, string(b))
			}
			s.writeJSON(w, http.StatusOK, resp)
		})

	default:
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation,
			"dimension must be slot or boss", nil)
	}
}

func (s *Server) handleSpawns(w http.ResponseWriter, r *http.Request) {
	h, ok := s.session(w, r)
	if !ok {
		return
	}
	h.with(func(sess *resolve.Session) {
		s.writeJSON(w, http.StatusOK, sess.AnalyzeSpawns())
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	h, ok := s.session(w, r)
	if !ok {
		return
	}
	h.with(func(sess *resolve.Session) {
		s.writeJSON(w, http.StatusOK, TokenResponse{Token: sess.Token()})
	})
}

// handleReplay replays a token statelessly: no registered session, no
// recorder, just the state the action sequence lands on.
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	var req ReplayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation,
			"invalid JSON in request body", map[string]interface{}{"cause": err.Error()})
		return
	}

	sess, err := resolve.Replay(s.cat, req.Token, nil)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeBadToken,
			"malformed share token", map[string]interface{}{"cause": err.Error()})
		return
	}

	resp := ReplayResponse{
		State:     string(sess.State()),
		Remaining: sess.RemainingCount(),
		Token:     sess.Token(),
	}
	if entry, ok := sess.Resolved(); ok {
		resp.Entry = entryPayload(entry)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMapTypes(w http.ResponseWriter, r *http.Request) {
	resp := MapTypesResponse{}
	for _, mt := range catalog.MapTypes {
		resp.MapTypes = append(resp.MapTypes, MapTypeInfo{
			Name:    string(mt),
			Entries: s.cat.TypeCount(mt),
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleGetEntry looks one seed up by id. A miss is a result, not a fault:
// 404 with a typed envelope.
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, ok := s.cat.ByID(id)
	if !ok {
		s.writeError(w, r, http.StatusNotFound, ErrTypeEntryNotFound,
			"no such catalog entry", map[string]interface{}{"id": id})
		return
	}
	s.writeJSON(w, http.StatusOK, entryPayload(entry))
}

func (s *Server) handleListResolutions(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, ErrTypeServiceUnavailable,
			"resolution log is disabled", nil)
		return
	}

	q := store.ResolutionsQuery{
		MapType: r.URL.Query().Get("map_type"),
		Page:    intParam(r, "page"),
		PerPage: intParam(r, "per_page"),
	}
	list, err := s.db.ListResolutions(q)
	if err != nil {
		s.logger.Printf("list resolutions error: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal,
			"failed to list resolutions", nil)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleTopEntries(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, ErrTypeServiceUnavailable,
			"resolution log is disabled", nil)
		return
	}

	top, err := s.db.TopEntries(intParam(r, "limit"))
	if err != nil {
		s.logger.Printf("top entries error: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal,
			"failed to rank entries", nil)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"entries": top})
}

// session resolves the {id} route param to a live handle, writing the 404
// itself on a miss.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*sessionHandle, bool) {
	id := chi.URLParam(r, "id")
	h, ok := s.sessions.get(id)
	if !ok {
		s.writeError(w, r, http.StatusNotFound, ErrTypeSessionNotFound,
			"no such session", map[string]interface{}{"id": id})
		return nil, false
	}
	return h, true
}

// currentUpdate rebuilds an Update for read paths, which have no assertion
// result in hand.
func currentUpdate(sess *resolve.Session) resolve.Update {
	upd := resolve.Update{
		State:     sess.State(),
		Facts:     sess.Facts(),
		Remaining: sess.RemainingCount(),
	}
	return upd
}

func intParam(r *http.Request, name string) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
