// Package codec turns a cart into an opaque storable string and back.
//
// The transform deters casual inspection in a storage viewer. It is not
// encryption: there is no authentication tag and the key is a fixed secret.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/angelmondragon/luxe-storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/luxe-storefront/pkg/errors"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/blake2b"
)

const (
	prefix  = "v1."
	version = 1
)

type envelope struct {
	V     int         `json:"v"`
	Items []cart.Line `json:"items"`
}

// Codec encodes carts with a keystream derived from a secret.
type Codec struct {
	key      [32]byte
	validate *validator.Validate
}

func New(secret string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("codec secret required")
	}
	return &Codec{
		key:      blake2b.Sum256([]byte(secret)),
		validate: validator.New(),
	}, nil
}

// Encode is deterministic for a given secret and cart.
func (c *Codec) Encode(lines cart.Cart) (string, error) {
	items := lines
	if items == nil {
		items = cart.Cart{}
	}
	plain, err := json.Marshal(envelope{V: version, Items: items})
	if err != nil {
		return "", fmt.Errorf("marshal cart envelope: %w", err)
	}
	if err := c.xor(plain); err != nil {
		return "", err
	}
	return prefix + base64.RawURLEncoding.EncodeToString(plain), nil
}

// Decode reverses Encode and validates the cart shape. Every failure is a
// DECODE_ERROR.
func (c *Codec) Decode(blob string) (cart.Cart, error) {
	body, ok := strings.CutPrefix(strings.TrimSpace(blob), prefix)
	if !ok {
		return nil, decodeError(fmt.Errorf("unsupported blob format"))
	}
	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, decodeError(fmt.Errorf("invalid base64: %w", err))
	}
	if err := c.xor(raw); err != nil {
		return nil, decodeError(err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, decodeError(fmt.Errorf("invalid envelope: %w", err))
	}
	if dec.More() {
		return nil, decodeError(fmt.Errorf("trailing data after envelope"))
	}
	if env.V != version {
		return nil, decodeError(fmt.Errorf("unsupported codec version %d", env.V))
	}
	if env.Items == nil {
		return nil, decodeError(fmt.Errorf("envelope has no items"))
	}
	if err := c.check(env.Items); err != nil {
		return nil, decodeError(err)
	}
	return env.Items, nil
}

func (c *Codec) check(items cart.Cart) error {
	seen := make(map[cart.Key]struct{}, len(items))
	for i, line := range items {
		if err := c.validate.Struct(line); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		if line.PrecioUnitario.IsNegative() {
			return fmt.Errorf("line %d: negative unit price", i)
		}
		if _, dup := seen[line.Key()]; dup {
			return fmt.Errorf("line %d: duplicate composite key", i)
		}
		seen[line.Key()] = struct{}{}
	}
	return nil
}

// xor applies the keystream in place. XOR is its own inverse.
func (c *Codec) xor(buf []byte) error {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, c.key[:])
	if err != nil {
		return fmt.Errorf("keystream: %w", err)
	}
	stream := make([]byte, len(buf))
	if _, err := io.ReadFull(xof, stream); err != nil {
		return fmt.Errorf("keystream: %w", err)
	}
	for i := range buf {
		buf[i] ^= stream[i]
	}
	return nil
}

func decodeError(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeDecode, err, "stored cart could not be decoded")
}

// IsDecodeError reports whether err came from Decode.
func IsDecodeError(err error) bool {
	return pkgerrors.HasCode(err, pkgerrors.CodeDecode)
}
