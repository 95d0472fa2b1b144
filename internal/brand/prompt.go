package brand

import (
	"fmt"
	"strings"
)

// Prompt is the system/user instruction pair for one generation.
type Prompt struct {
	System string
	User   string
}

const systemPrompt = `
あなたは、飲食店特化のSNSクリエイティブディレクターです。
広告代理店やSNS運用代行会社がクライアントに見せる
「ブランド戦略エグゼクティブサマリ」を作成します。

出力は必ず次のJSON形式「だけ」で返してください。余計な文章は一切書かないでください。

{
  "overview": "ブランド全体像。どのポジションを取りにいくかを1〜3文で。",
  "targetInsight": "ターゲットのライフスタイル・価値観・行動インサイトを2〜4文で。",
  "strength": "店舗の強みを箇条書きベースで3〜6行。",
  "coreMessage": "SNS上で一貫して伝えていくコアメッセージ（1〜2文）。キャッチコピー的でも良い。",
  "objective": "短期・中期・長期の目的をそれぞれ1〜2行で。",
  "contentStrategy": "どのような投稿カテゴリを、どの役割で出していくか（3〜6行）。",
  "visualGuide": "色味・明るさ・構図・写真のテイストなどのビジュアルルール（3〜6行）。"
}

日本語で書いてください。
店舗のカテゴリやコンセプトに応じて、
和食・イタリアン・カフェなどでトーンやビジュアルガイドがズレないように調整してください。
`

const userPromptFormat = `
店舗名: %s
カテゴリ: %s
ターゲット: %s
インスタ運用の目的: %s
コンセプト・雰囲気: %s
看板メニュー・コース内容: %s
追加情報・メモ: %s

上記を踏まえて、この店舗に最適化されたブランド戦略エグゼクティブサマリを作成してください。
出力は必ず、指定したJSONだけにしてください。`

// SystemPrompt returns the fixed persona and output-format instruction.
func SystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}

// UserPrompt embeds the resolved profile in the labelled layout.
func UserPrompt(p StoreProfile) string {
	return strings.TrimSpace(fmt.Sprintf(userPromptFormat,
		p.StoreName,
		p.Category,
		p.Target,
		p.Goal,
		p.Concept,
		p.MenuText,
		p.FreeNote,
	))
}

func BuildPrompt(p StoreProfile) Prompt {
	return Prompt{
		System: SystemPrompt(),
		User:   UserPrompt(p),
	}
}
