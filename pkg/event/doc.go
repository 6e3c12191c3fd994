// Package event は送金台帳に記録するイベントの型と生成処理を提供する。
package event
