package table

import (
	"encoding/binary"
	"strings"
)

const (
	usernameSize = 32
	emailSize    = 255
	idSize       = 4
	// RowSize is the fixed on-disk width of a serialized Row: id (4) +
	// username (32) + email (255).
	RowSize = idSize + usernameSize + emailSize
)

// Row is a fixed-schema record: a u32 primary key, a username of up
// to 31 visible bytes and an email of up to 254, both stored as
// fixed-width null-terminated byte arrays.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

// Encode serializes r into dst, which must be exactly RowSize bytes.
// Trailing bytes past each string's NUL terminator are left zeroed.
func (r Row) Encode(dst []byte) {
	for i := range dst[:RowSize] {
		dst[i] = 0
	}
	binary.LittleEndian.PutUint32(dst[0:4], r.ID)
	copy(dst[4:4+usernameSize], r.Username)
	copy(dst[4+usernameSize:4+usernameSize+emailSize], r.Email)
}

// DecodeRow deserializes a Row from src, which must be exactly
// RowSize bytes.
func DecodeRow(src []byte) Row {
	return Row{
		ID:       binary.LittleEndian.Uint32(src[0:4]),
		Username: strings.TrimRight(string(src[4:4+usernameSize]), "\x00"),
		Email:    strings.TrimRight(string(src[4+usernameSize:4+usernameSize+emailSize]), "\x00"),
	}
}
