package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting pipeline":               "パイプラインを開始します",
		"Pipeline completed successfully": "パイプラインが正常に完了しました",
		"Interrupted, shutting down...":   "中断されました。シャットダウン中...",
		"Output saved to %s":              "出力を %s に保存しました",

		// Ingest stage
		"Loaded %d frames from cache %s": "キャッシュ %[2]s から %[1]d フレームを読み込みました",
		"Decoded %d frames from %s":      "%[2]s から %[1]d フレームをデコードしました",
		"Failed to ingest frames: %s":    "フレームの取り込みに失敗しました: %s",

		// Stabilize stage
		"Stabilizing %d frames against reference %d":         "%d フレームを基準フレーム %d に合わせて安定化中",
		"%d frames could not be aligned and were kept as-is": "%d フレームは位置合わせできず、そのまま保持されました",
		"Failed to stabilize frames: %s":                     "フレームの安定化に失敗しました: %s",

		// Encode stage
		"Encoding video with CRF %d":  "CRF %d で動画をエンコード中",
		"Failed to encode video: %s":  "動画のエンコードに失敗しました: %s",
		"Failed to write output: %s":  "出力の書き込みに失敗しました: %s",
	})
}
