// Package authorization は認可サービスを実装する。
//
// トークンを認証サービスで検証したうえで、ユーザーの居住国と操作名の組み合わせを
// operation_policies テーブルと照合し、操作の可否を返す。
package authorization
