package rpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FailureKind はバックエンド呼び出しの失敗種別。
type FailureKind int

const (
	// KindInternal は認証・引数以外のすべての失敗（通信エラーを含む）。
	KindInternal FailureKind = iota
	// KindUnauthenticated はバックエンドが資格情報を拒否したことを表す。
	KindUnauthenticated
	// KindInvalidArgument はバックエンドがリクエスト内容を拒否したことを表す。
	KindInvalidArgument
)

// String は種別名を返す。
func (k FailureKind) String() string {
	switch k {
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindInternal:
		return "Internal"
	}
	return "Unknown"
}

// defaultDetail は詳細メッセージが得られなかった場合に使う文言。
const defaultDetail = "Internal server error."

// Failure はバックエンド呼び出しの失敗。Detail は常に空でない。
type Failure struct {
	Kind   FailureKind
	Detail string
	// Code は元のgRPCステータスコード。ログとメトリクス用。
	Code codes.Code
}

func (f *Failure) Error() string {
	return f.Kind.String() + ": " + f.Detail
}

// GRPCStatus はFailureをgRPCステータスとして扱えるようにする。
// バックエンド同士の呼び出しで失敗をそのまま上流へ伝播するために使う。
func (f *Failure) GRPCStatus() *status.Status {
	return status.New(f.Code, f.Detail)
}

// FromError はgRPC呼び出しのエラーをFailureに変換する。errがnilならnilを返す。
func FromError(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	st, ok := status.FromError(err)
	if !ok {
		return &Failure{Kind: KindInternal, Detail: detailOrDefault(err.Error()), Code: codes.Unknown}
	}

	kind := KindInternal
	switch st.Code() {
	case codes.Unauthenticated:
		kind = KindUnauthenticated
	case codes.InvalidArgument:
		kind = KindInvalidArgument
	}
	return &Failure{Kind: kind, Detail: detailOrDefault(st.Message()), Code: st.Code()}
}

// AsFailure はerrがFailureであればそれを返す。
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func detailOrDefault(detail string) string {
	if detail == "" {
		return defaultDetail
	}
	return detail
}
