// Package metrics はGatewayとバックエンド呼び出しのPrometheusメトリクスを提供する。
//
// メトリクスはパッケージ固有のレジストリに登録され、Handler で公開する。
// グローバルなデフォルトレジストリは使用しないため、テストごとに独立したインスタンスを作れる。
package metrics
