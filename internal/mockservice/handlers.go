package mockservice

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Start handles POST /api/assessment/start
func (s *Service) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.MaxQuestions <= 0 {
		req.MaxQuestions = 30
	}

	s.mu.Lock()
	if s.incomplete[req.UserID] {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Please complete your academic profile before taking the assessment.")
		return
	}
	sess := &session{
		id:     uuid.New().String(),
		userID: req.UserID,
		max:    req.MaxQuestions,
		min:    int(float64(req.MaxQuestions) * s.minFrac),
	}
	if sess.min < 1 {
		sess.min = 1
	}
	s.sessions[sess.id] = sess
	body := map[string]any{
		"success":       true,
		"session_id":    sess.id,
		"max_questions": sess.max,
		"min_questions": sess.min,
		"first_question": map[string]any{
			"question":            questionPayload(1),
			"round":               1,
			"courses_remaining":   len(catalog),
			"confidence":          0,
			"top_courses_preview": preview(sess),
		},
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, body)
}

// Answer handles POST /api/assessment/answer
func (s *Service) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[string(req.SessionID)]
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if sess.done {
		writeError(w, http.StatusConflict, "Assessment already completed")
		return
	}

	round := sess.round()
	if string(req.QuestionID) != questionID(round) {
		writeError(w, http.StatusConflict, "Answer is for a different question")
		return
	}
	q := questionFor(round)
	idx, err := strconv.Atoi(string(req.OptionID))
	if err != nil || idx < 1 || idx > len(q.options) {
		writeError(w, http.StatusBadRequest, "Unknown option")
		return
	}
	trait := q.options[idx-1].trait
	sess.answers = append(sess.answers, answer{questionID: string(req.QuestionID), trait: trait})

	if len(sess.answers) >= sess.max {
		sess.done = true
		writeJSON(w, http.StatusOK, completion(sess, map[string]any{"is_complete": true}))
		return
	}

	next := sess.round()
	writeJSON(w, http.StatusOK, map[string]any{
		"is_complete":         false,
		"trait_recorded":      trait,
		"current_round":       next,
		"courses_remaining":   coursesRemaining(sess),
		"confidence":          confidence(sess),
		"traits_discovered":   traitTotals(sess),
		"top_courses_preview": preview(sess),
		"can_finish_early":    next >= sess.min,
		"next_question":       questionPayload(next),
	})
}

// Previous handles POST /api/assessment/previous
func (s *Service) Previous(w http.ResponseWriter, r *http.Request) {
	var req previousRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[string(req.SessionID)]
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if sess.done {
		writeError(w, http.StatusConflict, "Assessment already completed")
		return
	}
	if len(sess.answers) == 0 {
		writeError(w, http.StatusBadRequest, "Already at the first question")
		return
	}
	sess.answers = sess.answers[:len(sess.answers)-1]

	round := sess.round()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":             true,
		"current_round":       round,
		"confidence":          confidence(sess),
		"traits_discovered":   traitTotals(sess),
		"courses_remaining":   coursesRemaining(sess),
		"top_courses_preview": preview(sess),
		"next_question":       questionPayload(round),
	})
}

// Finish handles POST /api/assessment/finish
func (s *Service) Finish(w http.ResponseWriter, r *http.Request) {
	var req finishRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[string(req.SessionID)]
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if sess.done {
		writeError(w, http.StatusConflict, "Assessment already completed")
		return
	}
	if sess.round() < sess.min {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Answer at least %d questions before finishing", sess.min))
		return
	}
	sess.done = true
	writeJSON(w, http.StatusOK, completion(sess, map[string]any{"success": true}))
}

// AcademicStatus handles GET /api/profile/{userID}/academic-status
func (s *Service) AcademicStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	s.mu.Lock()
	incomplete := s.incomplete[id]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"has_academic_info": !incomplete})
}

// SetProfileComplete marks a user's academic profile as complete or not.
func (s *Service) SetProfileComplete(userID int64, complete bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if complete {
		delete(s.incomplete, userID)
	} else {
		s.incomplete[userID] = true
	}
}

func questionID(round int) string { return fmt.Sprintf("q%d", round) }

func questionFor(round int) bankQuestion {
	return questionBank[(round-1)%len(questionBank)]
}

func questionPayload(round int) map[string]any {
	q := questionFor(round)
	opts := make([]map[string]any, 0, len(q.options))
	for i, o := range q.options {
		opts = append(opts, map[string]any{"option_id": strconv.Itoa(i + 1), "option_text": o.text})
	}
	return map[string]any{
		"question_id":   questionID(round),
		"question_text": q.text,
		"category":      q.category,
		"options":       opts,
	}
}

func traitTotals(sess *session) map[string]int {
	totals := make(map[string]int)
	for _, a := range sess.answers {
		totals[a.trait]++
	}
	return totals
}

func confidence(sess *session) float64 {
	c := float64(len(sess.answers)) * 100 / float64(sess.max)
	if c > 100 {
		c = 100
	}
	return c
}

func coursesRemaining(sess *session) int {
	n := len(catalog) - len(sess.answers)/2
	if n < 3 {
		n = 3
	}
	return n
}

func preview(sess *session) []map[string]any {
	ranked := rank(traitTotals(sess), len(sess.answers))
	out := make([]map[string]any, 0, 3)
	for i := 0; i < 3 && i < len(ranked); i++ {
		out = append(out, map[string]any{"course_name": ranked[i].name, "match_percentage": ranked[i].score})
	}
	return out
}

// completion builds the terminal payload. The score field name varies by
// rank to mirror the real service's inconsistency.
func completion(sess *session, base map[string]any) map[string]any {
	totals := traitTotals(sess)
	ranked := rank(totals, len(sess.answers))
	recs := make([]map[string]any, 0, len(ranked))
	for i, rc := range ranked {
		traits := make([]map[string]any, 0, len(rc.matched))
		for _, t := range rc.traits {
			if n, ok := rc.matched[t]; ok {
				traits = append(traits, map[string]any{"name": t, "count": n})
			}
		}
		rec := map[string]any{
			"course_name":        rc.name,
			"description":        rc.description,
			"matched_traits":     traits,
			"minimum_gwa":        rc.minimumGWA,
			"recommended_strand": rc.strand,
		}
		switch i % 3 {
		case 0:
			rec["compatibility_score"] = rc.score
		case 1:
			rec["match_percentage"] = rc.score
		default:
			rec["match_percentage"] = strconv.FormatFloat(rc.score, 'f', 0, 64) + "%"
		}
		recs = append(recs, rec)
	}
	base["traits_discovered"] = totals
	base["confidence"] = confidence(sess)
	base["recommendations"] = recs
	return base
}
