// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     playback
// Description: Playback state machine
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package playback

import (
	"sync"
	"time"
)

// State represents the current playback state
type State int

const (
	// StateIdle - nothing queued, device stopped
	StateIdle State = iota

	// StateSpeaking - an utterance is being synthesized or played
	StateSpeaking

	// StatePaused - output is silent, buffered audio is kept
	StatePaused
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Bereit"
	case StateSpeaking:
		return "Spricht..."
	case StatePaused:
		return "Pausiert"
	default:
		return "Unbekannt"
	}
}

// Icon returns an icon for the state
func (s State) Icon() string {
	switch s {
	case StateIdle:
		return "⏹"
	case StateSpeaking:
		return "🔊"
	case StatePaused:
		return "⏸"
	default:
		return "?"
	}
}

// StateChangeListener is called when state changes
type StateChangeListener func(oldState, newState State)

// StateMachine manages state transitions
type StateMachine struct {
	mu           sync.RWMutex
	currentState State
	stateTime    time.Time
	listeners    []StateChangeListener
}

// NewStateMachine creates a new state machine
func NewStateMachine() *StateMachine {
	return &StateMachine{
		currentState: StateIdle,
		stateTime:    time.Now(),
	}
}

// Current returns the current state
func (sm *StateMachine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// StateDuration returns how long we've been in the current state
func (sm *StateMachine) StateDuration() time.Duration {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return time.Since(sm.stateTime)
}

// Transition changes to a new state. Invalid and self transitions are
// rejected without notifying listeners.
func (sm *StateMachine) Transition(newState State) bool {
	sm.mu.Lock()
	oldState := sm.currentState

	if !isValidTransition(oldState, newState) {
		sm.mu.Unlock()
		return false
	}

	sm.currentState = newState
	sm.stateTime = time.Now()
	listeners := sm.listeners
	sm.mu.Unlock()

	for _, listener := range listeners {
		listener(oldState, newState)
	}

	return true
}

// AddListener adds a state change listener
func (sm *StateMachine) AddListener(listener StateChangeListener) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.listeners = append(sm.listeners, listener)
}

func isValidTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateSpeaking
	case StateSpeaking:
		return to == StatePaused || to == StateIdle
	case StatePaused:
		return to == StateSpeaking || to == StateIdle
	}
	return false
}
