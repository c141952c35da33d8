package gameserver

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/jdalgaard/rondo/internal/game/session"
	"github.com/jdalgaard/rondo/internal/game/turn"
)

func encodeResponse(resp gameResponse) ([]byte, error) {
	return json.Marshal(resp)
}

// afterAction broadcasts an engine result to the game's watchers and
// re-arms the auto-resolve timer for whatever choice the engine now waits
// on.
//
// Postcondition: Returns the response the acting client should receive.
func (s *Service) afterAction(sess *session.GameSession, events []turn.Event) gameResponse {
	resp := gameResponse{
		GameID:   sess.ID,
		Events:   events,
		Snapshot: sess.Game.Snapshot(),
	}

	if payload, err := encodeResponse(resp); err == nil {
		s.hub.Broadcast(sess.ID, payload)
	} else {
		s.logger.Error("encoding broadcast payload", zap.Error(err))
	}

	s.scheduleTimer(sess, resp.Snapshot)
	return resp
}

// scheduleTimer arms the auto-resolve deadline when the game is waiting
// on a player choice, and disarms it otherwise.
func (s *Service) scheduleTimer(sess *session.GameSession, snap turn.Snapshot) {
	s.stopTimer(sess.ID)

	timeout := s.cfg.Game.ChoiceTimeout
	if timeout <= 0 {
		return
	}
	if snap.Phase != turn.PhaseSelectingStop.String() && snap.Phase != turn.PhaseAwaitingTask.String() {
		return
	}

	id := sess.ID
	timer := NewChoiceTimer(timeout, func() { s.autoResolve(id) })
	s.timerMu.Lock()
	s.timers[id] = timer
	s.timerMu.Unlock()
}

func (s *Service) stopTimer(id string) {
	s.timerMu.Lock()
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
	s.timerMu.Unlock()
}

// autoResolve makes the default choice on behalf of an unresponsive
// player: ride the roll to its full destination, or pay the minimum into
// the open task dialog.
func (s *Service) autoResolve(id string) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return
	}

	snap := sess.Game.Snapshot()
	var (
		events []turn.Event
		err    error
	)
	switch snap.Phase {
	case turn.PhaseSelectingStop.String():
		if snap.Destination == nil {
			return
		}
		events, err = sess.Game.ChooseStop(*snap.Destination)
	case turn.PhaseAwaitingTask.String():
		if snap.Pending == nil {
			return
		}
		events, err = sess.Game.ResolveTask(snap.Pending.MinSteps)
	default:
		return
	}
	if err != nil {
		// A player action slipped in between the snapshot and the call.
		s.logger.Debug("auto-resolve superseded",
			zap.String("game_id", id),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("choice timed out, auto-resolved",
		zap.String("game_id", id),
		zap.String("phase", snap.Phase),
	)
	s.afterAction(sess, events)
}
