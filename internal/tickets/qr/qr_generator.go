package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/skip2/go-qrcode"

	"cinema-ticketing/internal/models"
)

// Claim is what the QR code on a printed ticket carries. The barcode alone
// is not unique, so the row id travels with it.
type Claim struct {
	TicketID    int64  `json:"ticket_id"`
	BarcodeCode string `json:"barcode_code"`
	Seat        string `json:"seat"`
	Movie       string `json:"movie"`
}

type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:]}
}

// GenerateEncryptedQR returns a 256px PNG QR code holding the encrypted claim.
func (q *QRGenerator) GenerateEncryptedQR(ticket models.TicketRecord) ([]byte, error) {
	token, err := q.Token(ticket)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(token, qrcode.Medium, 256)
}

// Token is the text encoded into the QR image.
func (q *QRGenerator) Token(ticket models.TicketRecord) (string, error) {
	data, err := json.Marshal(Claim{
		TicketID:    ticket.ID,
		BarcodeCode: ticket.BarcodeCode,
		Seat:        ticket.SeatIdentifier,
		Movie:       ticket.MovieTitle,
	})
	if err != nil {
		return "", err
	}
	return encryptAES(data, q.secret)
}

// Verify decrypts a scanned token.
func (q *QRGenerator) Verify(token string) (*Claim, error) {
	data, err := decryptAES(token, q.secret)
	if err != nil {
		return nil, err
	}
	var claim Claim
	if err := json.Unmarshal(data, &claim); err != nil {
		return nil, fmt.Errorf("invalid ticket token: %w", err)
	}
	return &claim, nil
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

func decryptAES(token string, key []byte) ([]byte, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket token: %w", err)
	}
	if len(ciphertext) < aes.BlockSize {
		return nil, errors.New("invalid ticket token: too short")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	data := make([]byte, len(ciphertext)-aes.BlockSize)
	stream := cipher.NewCFBDecrypter(block, ciphertext[:aes.BlockSize])
	stream.XORKeyStream(data, ciphertext[aes.BlockSize:])
	return data, nil
}
