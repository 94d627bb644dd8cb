package service

import (
	"fmt"
	"strings"
	"time"

	"nlreminder/internal/application/dto"
)

const (
	commandList  = "一覧"
	commandUsage = "使い方"
	commandHelp  = "ヘルプ"
)

// helpMessage is sent whenever a message matches no supported phrasing.
const helpMessage = `申し訳ございません。メッセージを理解できませんでした。

例: 「明日の朝8時にゴミ出し」
例: 「今日の15時にミーティング」
例: 「2025年9月15日 14:30に会議の準備」
例: 「来週の月曜日 9時に病院の予約」

「一覧」と入力すると登録中のリマインダーを確認できます。`

const (
	storeFailedMessage = "リマインダーの登録に失敗しました。時間をおいてもう一度お試しください。"
	listFailedMessage  = "リマインダー一覧の取得に失敗しました。"
	emptyListMessage   = "現在登録されているリマインドはありません"
)

func confirmationMessage(display, task string) string {
	return fmt.Sprintf("リマインダーを設定しました！\n日時: %s\nタスク: %s", display, task)
}

func pushMessage(task string) string {
	return fmt.Sprintf("🔔 リマインダー\n%s", task)
}

func listMessage(reminders []dto.ReminderResponse, format func(time.Time) string) string {
	var builder strings.Builder
	for _, r := range reminders {
		builder.WriteString(fmt.Sprintf("%s\n%s\n\n", format(r.DueAt), r.Task))
	}
	return strings.TrimSuffix(builder.String(), "\n\n")
}
