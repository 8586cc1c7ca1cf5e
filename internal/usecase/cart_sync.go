package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain/model"
	"storefront/internal/identity"
	"storefront/internal/repository"
)

// 同期エンジンの状態
type SyncState int

const (
	SyncUninitialized SyncState = iota
	SyncLoading
	SyncReady
)

const (
	defaultDebounce    = 1 * time.Second
	remoteWriteTimeout = 10 * time.Second
)

// CartSynchronizer はメモリ上のカートを正とし、端末ローカル保存と
// リモート保存を追従させる。
//
//   - Initial Load: identityが解決/変更されるたびに local+remote をマージ。
//     中身のあるリモートが正（端末間の正本はサーバー側）
//   - Write-back: 変更のたびにローカルへ即時保存。認証中はリモートへ
//     デバウンス保存（静止期間後に1回、発火時点の最新状態を丸ごと送る）
//   - リモート障害はすべてソフト失敗。ローカル/メモリ側は巻き戻さない
type CartSynchronizer struct {
	local    repository.LocalStore
	remote   repository.RemoteCartRepository
	debounce time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	state   SyncState
	ident   identity.Identity
	lines   []model.CartLine
	gen     int // identity解決の世代。古いロード/フラッシュを破棄する
	pending []func()
	timer   *time.Timer
}

// DI
func NewCartSynchronizer(
	local repository.LocalStore,
	remote repository.RemoteCartRepository,
	debounce time.Duration,
	log *zap.Logger,
) *CartSynchronizer {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CartSynchronizer{
		local:    local,
		remote:   remote,
		debounce: debounce,
		log:      log,
		lines:    []model.CartLine{},
	}
}

// OnIdentityChanged はidentityイベントの購読口。
// 同じidentityの再通知は何もしない（冪等）。
// 変更時はInitial Loadをやり直し、進行中の古いロードは結果ごと捨てる。
func (s *CartSynchronizer) OnIdentityChanged(ctx context.Context, id identity.Identity) {
	s.mu.Lock()
	if s.state != SyncUninitialized && id == s.ident {
		s.mu.Unlock()
		return
	}

	s.ident = id
	s.gen++
	gen := s.gen
	s.state = SyncLoading
	s.stopTimerLocked()
	s.mu.Unlock()

	go s.initialLoad(ctx, gen, id)
}

func (s *CartSynchronizer) initialLoad(ctx context.Context, gen int, id identity.Identity) {
	localLines := model.ValidateAndDedupe(s.local.Load(ctx))

	lines := localLines
	remoteWins := false

	if !id.IsAnonymous() {
		rec, err := s.remote.FetchByUser(ctx, id.UserID)
		switch {
		case err == nil:
			if remoteLines := rec.Lines(); len(remoteLines) > 0 {
				lines = remoteLines
				remoteWins = true
			}
			// 空/壊れたリモートはローカルが生き残り、初回書き込みの種になる
		case errors.Is(err, repository.ErrNotFound):
			// 未作成。ローカルで継続
		default:
			// ソフト失敗。同期的なリトライはしない
			s.log.Warn("リモートカートの取得に失敗。ローカルで継続",
				zap.String("user_id", id.UserID), zap.Error(err))
		}
	}

	s.mu.Lock()
	if gen != s.gen {
		// ロード中にidentityが変わった。古い結果は捨てる
		s.mu.Unlock()
		return
	}
	s.lines = lines
	s.state = SyncReady
	queued := s.pending
	s.pending = nil
	s.mu.Unlock()

	if remoteWins {
		// ローカルもリモートに合わせて上書き
		if err := s.local.Save(ctx, lines); err != nil {
			s.log.Warn("ローカルカートの上書きに失敗", zap.Error(err))
		}
	}

	// Loading中に積まれた変更を順に適用
	for _, fn := range queued {
		fn()
	}
}

// Apply はメモリ上のカートを変更し、write-backを走らせる。
// Ready前の変更は捨てずに積み、Ready時に順に適用する。
func (s *CartSynchronizer) Apply(ctx context.Context, mutate func(lines []model.CartLine) []model.CartLine) error {
	s.mu.Lock()
	if s.state != SyncReady {
		s.pending = append(s.pending, func() { _ = s.Apply(ctx, mutate) })
		s.mu.Unlock()
		return nil
	}

	// 永続化前の防御的な再検証
	s.lines = model.ValidateAndDedupe(mutate(s.lines))
	lines := snapshotLines(s.lines)
	id := s.ident
	s.mu.Unlock()

	// ローカルへは無条件で即時保存
	if err := s.local.Save(ctx, lines); err != nil {
		s.log.Warn("ローカルカートの保存に失敗", zap.Error(err))
	}

	if !id.IsAnonymous() {
		s.scheduleFlush()
	}
	return nil
}

// Clear は明示的な全消去（購入完了後など）。
// メモリとローカルを空にし、認証中ならリモートもベストエフォートで空に置き換える。
func (s *CartSynchronizer) Clear(ctx context.Context) error {
	s.mu.Lock()
	if s.state != SyncReady {
		s.pending = append(s.pending, func() { _ = s.Clear(ctx) })
		s.mu.Unlock()
		return nil
	}

	s.lines = []model.CartLine{}
	s.stopTimerLocked()
	id := s.ident
	s.mu.Unlock()

	if err := s.local.Save(ctx, []model.CartLine{}); err != nil {
		s.log.Warn("ローカルカートの消去に失敗", zap.Error(err))
	}

	if id.IsAnonymous() {
		return nil
	}

	rec, err := s.remote.FetchByUser(ctx, id.UserID)
	switch {
	case err == nil:
		if _, err := s.remote.Update(ctx, rec.ID, []model.CartLine{}); err != nil {
			// 失敗しても致命ではない。次のInitial Loadで古い明細が
			// 復活し得るのは既知の許容リスク
			s.log.Warn("リモートカートの消去に失敗", zap.String("user_id", id.UserID), zap.Error(err))
		}
	case errors.Is(err, repository.ErrNotFound):
		// 消すものがない
	default:
		s.log.Warn("リモートカートの消去に失敗", zap.String("user_id", id.UserID), zap.Error(err))
	}
	return nil
}

// デバウンス窓をリセットする。窓内の連続変更は1回のリモート書き込みに畳まれる。
func (s *CartSynchronizer) scheduleFlush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	gen := s.gen
	s.timer = time.AfterFunc(s.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
		defer cancel()
		s.flushRemote(ctx, gen)
	})
}

// flushRemote は発火時点の最新状態を丸ごとリモートへ書く。
// スケジュール時点のスナップショットではないので、窓内の後続変更も漏れない。
func (s *CartSynchronizer) flushRemote(ctx context.Context, gen int) {
	s.mu.Lock()
	if gen != s.gen {
		// スケジュール後にidentityが変わった古いフラッシュ
		s.mu.Unlock()
		return
	}
	id := s.ident
	lines := snapshotLines(s.lines)
	s.mu.Unlock()

	if id.IsAnonymous() {
		return
	}

	rec, err := s.remote.FetchByUser(ctx, id.UserID)
	switch {
	case err == nil:
		_, err = s.remote.Update(ctx, rec.ID, lines)
	case errors.Is(err, repository.ErrNotFound):
		_, err = s.remote.Create(ctx, id.UserID, lines)
	}
	if err != nil {
		// ソフト失敗。メモリ/ローカルが引き続きセッションの正
		s.log.Warn("リモートカートの同期に失敗", zap.String("user_id", id.UserID), zap.Error(err))
	}
}

// Shutdown は保留中のデバウンス書き込みがあれば、その場でフラッシュする。
func (s *CartSynchronizer) Shutdown(ctx context.Context) {
	s.mu.Lock()
	hasPending := s.timer != nil && s.timer.Stop()
	gen := s.gen
	s.timer = nil
	s.mu.Unlock()

	if hasPending {
		s.flushRemote(ctx, gen)
	}
}

// Lines は現在の明細列のコピーを返す。
func (s *CartSynchronizer) Lines() []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotLines(s.lines)
}

func (s *CartSynchronizer) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *CartSynchronizer) CurrentIdentity() identity.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ident
}

func (s *CartSynchronizer) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func snapshotLines(lines []model.CartLine) []model.CartLine {
	out := make([]model.CartLine, len(lines))
	copy(out, lines)
	return out
}
