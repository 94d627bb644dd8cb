package errors

import "errors"

// Custom application errors
var (
	ErrConfiguration           = errors.New("設定が不足しているか無効です")           // Missing credential or invalid setting
	ErrReminderNotFound        = errors.New("リマインダーが見つかりません")            // Reminder not found
	ErrInvalidStatusTransition = errors.New("無効なステータス遷移です")              // Only PENDING -> SENT is allowed
	ErrAlreadySent             = errors.New("リマインダーは既に送信済みです")          // Conditional update lost: row is no longer pending
	ErrDatabaseOperation       = errors.New("データベース操作に失敗しました")         // Generic store error
	ErrLineAPI                 = errors.New("LINE APIとの通信に失敗しました")     // Generic notification error
	ErrTimeout                 = errors.New("外部呼び出しがタイムアウトしました")       // A bounded network call ran out of time
)
