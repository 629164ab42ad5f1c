// Package main provides localization for the videostab CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Stabilize shaky videos with frame-cache-aware processing": "フレームキャッシュを活用して手ぶれ動画を安定化",

		// Stabilize command
		"Stabilize a video file":                     "動画ファイルを安定化",
		"Directory for the stabilized video":         "安定化した動画の出力先ディレクトリ",
		"Path to a YAML configuration file":          "YAML設定ファイルのパス",
		"Root directory of the frame cache":          "フレームキャッシュのルートディレクトリ",
		"Reference frame number, starting at 1":      "基準フレーム番号（1始まり）",
		"Alignment strategy (correlation or feature)": "位置合わせ戦略（correlation または feature）",
		"Largest translation in pixels the correlation search covers": "相関探索がカバーする最大移動量（ピクセル）",
		"Output frame rate (default: the source's rate)":              "出力フレームレート（デフォルト: 入力のレート）",
		"Video quality (CRF, lower is better)":                        "動画品質（CRF、小さいほど高品質）",
		"Video bitrate in kbit/s (overrides CRF)":                     "動画ビットレート kbit/s（CRFより優先）",
		"Output container (mp4 or avi)":                               "出力コンテナ（mp4 または avi）",
		"Number of parallel workers (0 = all CPUs)":                   "並列ワーカー数（0 = 全CPU）",
		"Write debug artifacts":                                       "デバッグ成果物を出力",
		"Directory for debug artifacts":                               "デバッグ成果物のディレクトリ",
		"Log level (debug, info, warn, error)":                        "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                                     "ログ出力をすべて抑制",

		// Runtime messages
		"expected exactly one video file argument":  "動画ファイルを1つだけ指定してください",
		"Stabilizing %s with the %s strategy...":    "%s を %s 戦略で安定化中...",
		"Failed to write summary: %s":               "サマリーの書き込みに失敗しました: %s",

		// Summary sections
		"Stabilization Summary": "安定化サマリー",
		"Generated":             "生成日時",
		"Source":                "入力",
		"Path":                  "パス",
		"Frames":                "フレーム数",
		"Frame Rate":            "フレームレート",
		"Frame Cache":           "フレームキャッシュ",
		"hit":                   "ヒット",
		"decoded":               "デコード",
		"Alignment":             "位置合わせ",
		"Strategy":              "戦略",
		"Reference Frame":       "基準フレーム",
		"Unaligned Frames":      "未整列フレーム",
		"None":                  "なし",
		"Output":                "出力",
		"Container":             "コンテナ",
		"Duration":              "再生時間",
		"File Size":             "ファイルサイズ",
	})
}
