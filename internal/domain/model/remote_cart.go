package model

// RemoteCartRecord はリモート（Firestore）側のカート1件。
// ユーザーごとに1レコード。itemsJsonに明細列を丸ごと持つ。
type RemoteCartRecord struct {
	ID        string
	UserID    string
	ItemsJSON string
}

// Lines はitemsJsonを検証済み明細列に復元する。壊れていれば空。
func (r RemoteCartRecord) Lines() []CartLine {
	return DecodeLines([]byte(r.ItemsJSON))
}
