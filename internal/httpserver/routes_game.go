// internal/httpserver/routes_game.go
//
// HTTP routes for playing a game. Each route forwards one player action to the
// session's engine and answers with the engine's view of the game:
//   - POST   /game/new            → start a session ("random" or "daily" target)
//   - GET    /game/{id}           → current state snapshot
//   - POST   /game/{id}/letter    → type one letter
//   - POST   /game/{id}/backspace → delete the last letter
//   - POST   /game/{id}/submit    → submit the current row
//   - POST   /game/{id}/reset     → start over with a new target (random mode only)
//   - DELETE /game/{id}           → abandon the session
//
// Sessions belong to the player that created them; other players get 404.
// Finished games are recorded in the owner's stats. A daily game is played
// once per player per UTC day: it cannot be reset, a new one is refused after
// the day's result is in, and only the first result counts.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/stevethucpham/worldle/internal/daily"
	"github.com/stevethucpham/worldle/internal/game"
	"github.com/stevethucpham/worldle/internal/store"
	"github.com/stevethucpham/worldle/internal/validator"
)

// mountGame registers the /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/new", s.handleNewGame)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", s.withSession(s.handleState))
		r.Delete("/", s.withSession(s.handleAbandon))
		r.Post("/letter", s.withSession(s.handleLetter))
		r.Post("/backspace", s.withSession(s.handleBackspace))
		r.Post("/submit", s.withSession(s.handleSubmit))
		r.Post("/reset", s.withSession(s.handleReset))
	})
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *store.Session)

// withSession loads the {id} session and checks the caller owns it.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil || !s.ownsSession(r, sess.PlayerID) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		h(w, r, sess)
	}
}

// -----------------------------------------------------------------------------
// /game/new

type newGameReq struct {
	Mode string `json:"mode"` // "random" (default) | "daily"
}

type newGameRes struct {
	GameID      string     `json:"gameId"`
	Mode        store.Mode `json:"mode"`
	WordLength  int        `json:"wordLength"`
	MaxAttempts int        `json:"maxAttempts"`
}

// handleNewGame builds a session: dictionary clone → validator → engine.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	mode := store.Mode(req.Mode)
	if mode == "" {
		mode = store.ModeRandom
	}
	pid := s.playerID(w, r)
	var (
		opts []game.Option
		date string
	)
	switch mode {
	case store.ModeRandom:
	case store.ModeDaily:
		day := s.now()
		date = daily.DateKey(day)
		played, err := s.stats.PlayedDaily(r.Context(), pid, date)
		if err != nil {
			log.Error().Err(err).Str("player", pid).Msg("check daily")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if played {
			writeError(w, http.StatusConflict, "daily_already_played")
			return
		}
		opts = append(opts, game.WithTargetPicker(daily.Picker(s.dict, s.cfg.DailySalt, func() time.Time { return day })))
	default:
		writeError(w, http.StatusBadRequest, "bad_mode")
		return
	}

	dict := s.dict.Clone()
	v := validator.New(dict, s.lookup, s.metrics)
	sess := store.NewSession(pid, mode, game.New(dict, v, opts...))
	sess.Date = date
	sess.OnEvent(s.onGameEvent)

	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("gameId", sess.ID).Str("player", sess.PlayerID).Str("mode", string(mode)).Msg("game started")

	writeJSON(w, http.StatusCreated, newGameRes{
		GameID:      sess.ID,
		Mode:        mode,
		WordLength:  game.WordLength,
		MaxAttempts: game.MaxAttempts,
	})
}

// onGameEvent records finished games.
func (s *Server) onGameEvent(sess *store.Session, ev game.Event) {
	if ev.Kind != game.EventGameOver {
		return
	}
	s.metrics.ObserveGameFinished(ev.Won)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var err error
	counted := true
	if sess.Mode == store.ModeDaily {
		_, counted, err = s.stats.RecordDaily(ctx, sess.PlayerID, sess.Date, ev.Won, ev.Attempt)
	} else {
		_, err = s.stats.Record(ctx, sess.PlayerID, ev.Won, ev.Attempt)
	}
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Str("player", sess.PlayerID).Msg("record stats")
		return
	}
	log.Info().Str("gameId", sess.ID).Bool("won", ev.Won).Int("attempts", ev.Attempt).Bool("counted", counted).Msg("game finished")
}

// -----------------------------------------------------------------------------
// state / input

type actionRes struct {
	Changed bool       `json:"changed"`
	State   game.State `json:"state"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	writeJSON(w, http.StatusOK, sess.Engine.Snapshot())
}

type letterReq struct {
	Letter string `json:"letter"`
}

// handleLetter types one letter. Input the engine ignores (full row, game over,
// non-letter) is not an error; Changed reports whether the board moved.
func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	var req letterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || utf8.RuneCountInString(req.Letter) != 1 {
		writeError(w, http.StatusBadRequest, "bad_letter")
		return
	}
	letter, _ := utf8.DecodeRuneInString(req.Letter)
	changed := sess.Engine.AddLetter(letter)
	writeJSON(w, http.StatusOK, actionRes{Changed: changed, State: sess.Engine.Snapshot()})
}

func (s *Server) handleBackspace(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	changed := sess.Engine.RemoveLetter()
	writeJSON(w, http.StatusOK, actionRes{Changed: changed, State: sess.Engine.Snapshot()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	if sess.Mode == store.ModeDaily {
		writeError(w, http.StatusConflict, "daily_reset_not_allowed")
		return
	}
	sess.Engine.Reset()
	writeJSON(w, http.StatusOK, actionRes{Changed: true, State: sess.Engine.Snapshot()})
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// -----------------------------------------------------------------------------
// /game/{id}/submit

type submitRes struct {
	Result game.Result `json:"result"`
	State  game.State  `json:"state"`
}

// submitErrors maps engine failures to HTTP status and error code.
var submitErrors = []struct {
	err    error
	status int
	code   string
}{
	{game.ErrInvalidSubmission, http.StatusBadRequest, "invalid_submission"},
	{game.ErrWordNotValid, http.StatusUnprocessableEntity, "not_a_word"},
	{game.ErrSubmissionPending, http.StatusConflict, "submission_pending"},
	{game.ErrStaleSubmission, http.StatusConflict, "stale_submission"},
}

// handleSubmit submits the current row. It blocks while the word is validated.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	res, err := sess.Engine.SubmitGuess(r.Context())
	if err != nil {
		for _, se := range submitErrors {
			if errors.Is(err, se.err) {
				s.metrics.ObserveGuess(se.code)
				log.Debug().Err(err).Str("gameId", sess.ID).Msg("guess rejected")
				writeError(w, se.status, se.code)
				return
			}
		}
		log.Error().Err(err).Str("gameId", sess.ID).Msg("submit")
		writeError(w, http.StatusInternalServerError, "submit_failed")
		return
	}
	s.metrics.ObserveGuess("accepted")
	writeJSON(w, http.StatusOK, submitRes{Result: res, State: sess.Engine.Snapshot()})
}
