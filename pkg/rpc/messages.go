package rpc

import "google.golang.org/protobuf/encoding/protowire"

// GenerateTokenRequest はトークン発行リクエスト（AuthGenerateTokenRequest）。
type GenerateTokenRequest struct {
	// EmailOrPhone はログインIDとなるメールアドレスまたは電話番号。
	EmailOrPhone string `json:"email_or_phone"`
	// Password は平文のパスワード。
	Password string `json:"password"`
}

// MarshalWire はメッセージをワイヤ形式に変換する。
func (m *GenerateTokenRequest) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.EmailOrPhone)
	b = appendString(b, 2, m.Password)
	return b, nil
}

// UnmarshalWire はワイヤ形式からメッセージを復元する。
func (m *GenerateTokenRequest) UnmarshalWire(b []byte) error {
	*m = GenerateTokenRequest{}
	return decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.EmailOrPhone)
		case 2:
			return consumeString(typ, b, &m.Password)
		}
		return 0, nil
	})
}

// GenerateTokenResponse はトークン発行レスポンス（AuthGenerateTokenResponse）。
type GenerateTokenResponse struct {
	UID       string `json:"uid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	JWT       string `json:"jwt"`
}

// MarshalWire はメッセージをワイヤ形式に変換する。
func (m *GenerateTokenResponse) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.UID)
	b = appendString(b, 2, m.FirstName)
	b = appendString(b, 3, m.LastName)
	b = appendString(b, 4, m.JWT)
	return b, nil
}

// UnmarshalWire はワイヤ形式からメッセージを復元する。
func (m *GenerateTokenResponse) UnmarshalWire(b []byte) error {
	*m = GenerateTokenResponse{}
	return decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.UID)
		case 2:
			return consumeString(typ, b, &m.FirstName)
		case 3:
			return consumeString(typ, b, &m.LastName)
		case 4:
			return consumeString(typ, b, &m.JWT)
		}
		return 0, nil
	})
}

// ValidateTokenRequest はトークン検証リクエスト（JWT）。
type ValidateTokenRequest struct {
	JWT string `json:"jwt"`
}

// MarshalWire はメッセージをワイヤ形式に変換する。
func (m *ValidateTokenRequest) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.JWT), nil
}

// UnmarshalWire はワイヤ形式からメッセージを復元する。
func (m *ValidateTokenRequest) UnmarshalWire(b []byte) error {
	*m = ValidateTokenRequest{}
	return decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.JWT)
		}
		return 0, nil
	})
}

// ValidateTokenResponse はトークン検証レスポンス（AuthValidateTokenResponse）。
// 有効期限が近い場合、JWT には再発行されたトークンが入る。
type ValidateTokenResponse struct {
	UID string `json:"uid"`
	JWT string `json:"jwt"`
}

// MarshalWire はメッセージをワイヤ形式に変換する。
func (m *ValidateTokenResponse) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.UID)
	b = appendString(b, 2, m.JWT)
	return b, nil
}

// UnmarshalWire はワイヤ形式からメッセージを復元する。
func (m *ValidateTokenResponse) UnmarshalWire(b []byte) error {
	*m = ValidateTokenResponse{}
	return decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.UID)
		case 2:
			return consumeString(typ, b, &m.JWT)
		}
		return 0, nil
	})
}

// AuthorizeRequest は操作の認可リクエスト（AuthorizeRequest）。
type AuthorizeRequest struct {
	// Operation は認可を求める操作名（例: "Transfer"）。
	Operation string `json:"operation"`
	JWT       string `json:"jwt"`
}

// MarshalWire はメッセージをワイヤ形式に変換する。
func (m *AuthorizeRequest) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.Operation)
	b = appendString(b, 2, m.JWT)
	return b, nil
}

// UnmarshalWire はワイヤ形式からメッセージを復元する。
func (m *AuthorizeRequest) UnmarshalWire(b []byte) error {
	*m = AuthorizeRequest{}
	return decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Operation)
		case 2:
			return consumeString(typ, b, &m.JWT)
		}
		return 0, nil
	})
}

// AuthorizeResponse は操作の認可結果（AuthorizeResponse）。
type AuthorizeResponse struct {
	Successful bool   `json:"successful"`
	Message    string `json:"message"`
	JWT        string `json:"jwt"`
}

// MarshalWire はメッセージをワイヤ形式に変換する。
func (m *AuthorizeResponse) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendBool(b, 1, m.Successful)
	b = appendString(b, 2, m.Message)
	b = appendString(b, 3, m.JWT)
	return b, nil
}

// UnmarshalWire はワイヤ形式からメッセージを復元する。
func (m *AuthorizeResponse) UnmarshalWire(b []byte) error {
	*m = AuthorizeResponse{}
	return decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeBool(typ, b, &m.Successful)
		case 2:
			return consumeString(typ, b, &m.Message)
		case 3:
			return consumeString(typ, b, &m.JWT)
		}
		return 0, nil
	})
}

// TransferRequest は送金リクエスト（TransactionRequest）。
type TransferRequest struct {
	JWT                   string  `json:"jwt"`
	Amount                float64 `json:"amount"`
	ReceiverAccountNumber string  `json:"receiver_account_number"`
}

// MarshalWire はメッセージをワイヤ形式に変換する。
func (m *TransferRequest) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.JWT)
	b = appendDouble(b, 2, m.Amount)
	b = appendString(b, 3, m.ReceiverAccountNumber)
	return b, nil
}

// UnmarshalWire はワイヤ形式からメッセージを復元する。
func (m *TransferRequest) UnmarshalWire(b []byte) error {
	*m = TransferRequest{}
	return decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.JWT)
		case 2:
			return consumeDouble(typ, b, &m.Amount)
		case 3:
			return consumeString(typ, b, &m.ReceiverAccountNumber)
		}
		return 0, nil
	})
}

// TransferResponse は送金結果（TransactionResponse）。
type TransferResponse struct {
	RefID                 string  `json:"ref_id"`
	Amount                float64 `json:"amount"`
	SenderName            string  `json:"sender_name"`
	ReceiverName          string  `json:"receiver_name"`
	SenderAccountNumber   string  `json:"sender_account_number"`
	ReceiverAccountNumber string  `json:"receiver_account_number"`
	Narration             string  `json:"narration"`
	JWT                   string  `json:"jwt"`
}

// MarshalWire はメッセージをワイヤ形式に変換する。
func (m *TransferResponse) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.RefID)
	b = appendDouble(b, 2, m.Amount)
	b = appendString(b, 3, m.SenderName)
	b = appendString(b, 4, m.ReceiverName)
	b = appendString(b, 5, m.SenderAccountNumber)
	b = appendString(b, 6, m.ReceiverAccountNumber)
	b = appendString(b, 7, m.Narration)
	b = appendString(b, 8, m.JWT)
	return b, nil
}

// UnmarshalWire はワイヤ形式からメッセージを復元する。
func (m *TransferResponse) UnmarshalWire(b []byte) error {
	*m = TransferResponse{}
	return decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.RefID)
		case 2:
			return consumeDouble(typ, b, &m.Amount)
		case 3:
			return consumeString(typ, b, &m.SenderName)
		case 4:
			return consumeString(typ, b, &m.ReceiverName)
		case 5:
			return consumeString(typ, b, &m.SenderAccountNumber)
		case 6:
			return consumeString(typ, b, &m.ReceiverAccountNumber)
		case 7:
			return consumeString(typ, b, &m.Narration)
		case 8:
			return consumeString(typ, b, &m.JWT)
		}
		return 0, nil
	})
}
