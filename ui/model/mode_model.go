package model

import (
	"sync/atomic"

	"github.com/soocke/splash-fisher/domain/fishing"
)

// ModeModel holds the movement mode selected in the control window.
// The zero value selects splash mode. Safe for concurrent use.
type ModeModel struct{ mode atomic.Int32 }

// NewModeModel returns a model preset to the named mode; unknown names
// select splash mode.
func NewModeModel(name string) *ModeModel {
	m := &ModeModel{}
	_ = m.SetName(name)
	return m
}

// Mode returns the selected mode.
func (m *ModeModel) Mode() fishing.MoveMode {
	if m == nil {
		return fishing.ModeSplash
	}
	return fishing.MoveMode(m.mode.Load())
}

// SetName selects the named mode. Unknown names leave splash mode selected
// and return the parse error.
func (m *ModeModel) SetName(name string) error {
	if m == nil {
		return nil
	}
	mode, err := fishing.ParseMoveMode(name)
	m.mode.Store(int32(mode))
	return err
}
