// Package userstore はバックエンドサービスが共有するユーザーディレクトリを提供する。
//
// ユーザーはSQLiteのusersテーブルに保存され、スキーマと開発用の初期データは
// 埋め込みのマイグレーションで作成される。
package userstore
