package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// ErrSecretKeyMissing 未配置 security.bank_details_key
var ErrSecretKeyMissing = errors.New("未配置银行信息加密密钥")

// SecretBox 银行信息等敏感字段的对称加密
type SecretBox struct {
	key *[32]byte
}

// NewSecretBox passphrase 为空时返回的 SecretBox 拒绝加解密
func NewSecretBox(passphrase string) *SecretBox {
	if passphrase == "" {
		return &SecretBox{}
	}
	key := sha256.Sum256([]byte(passphrase))
	return &SecretBox{key: &key}
}

// Seal 加密并编码为 base64，空字符串原样返回
func (b *SecretBox) Seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	if b.key == nil {
		return "", ErrSecretKeyMissing
	}
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("生成随机数失败: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(plain), &nonce, b.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open 解密 Seal 的输出
func (b *SecretBox) Open(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	if b.key == nil {
		return "", ErrSecretKeyMissing
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("密文格式错误: %w", err)
	}
	if len(raw) < 24+secretbox.Overhead {
		return "", errors.New("密文长度不足")
	}
	var nonce [24]byte
	copy(nonce[:], raw[:24])
	plain, ok := secretbox.Open(nil, raw[24:], &nonce, b.key)
	if !ok {
		return "", errors.New("解密失败")
	}
	return string(plain), nil
}
