package usecase

import "sync/atomic"

// ScreenState はキオスク画面の表示状態を保持し、同期してよいかを判定します
// 画面側（RPC）から並行に更新され、同期エンジンのループから読み取られます
type ScreenState struct {
	visible        atomic.Bool
	modalPresented atomic.Bool
	forceSync      atomic.Bool
}

// NewScreenState は新しいScreenStateを作成します
// forceSync が true の場合、画面の状態に関係なく常に同期します
func NewScreenState(forceSync bool) *ScreenState {
	s := &ScreenState{}
	s.forceSync.Store(forceSync)
	return s
}

// Report は画面側から通知された状態を反映します
func (s *ScreenState) Report(visible, modalPresented, forceSync bool) {
	s.visible.Store(visible)
	s.modalPresented.Store(modalPresented)
	s.forceSync.Store(forceSync)
}

// ShouldSync は一覧画面が最前面に表示されていてモーダルが出ていない場合、
// または強制同期が有効な場合に true を返します
func (s *ScreenState) ShouldSync() bool {
	return (s.visible.Load() && !s.modalPresented.Load()) || s.forceSync.Load()
}
