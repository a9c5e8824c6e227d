// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"time"
)

const manifestPublicKeyPEM = `-----BEGIN PUBLIC KEY-----
MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEAr342WMBNpP0MjFDRIcQB
az1MXeIiziFghyR9IkxNxvdC6jxiMs68AAWFESeEGPQeCkdThcWzAltYH2U/QOBs
SClSftWV4kjYEiVOsAIYEGtQeyW55bDbNWW+wXk9JXBSEj3U86izY3dlTjZJRgEm
B8e7TkkFPIk/iLNCbfam2w/9MTECKIQZMrlAKRO/AeQsMOFk2IUqHoi7fPTGBDQQ
MudDy/9yiQC8iHKfXvDYV8xLSCDY8j5+1HLefGGyq4t8KBvGQUhZHzfnXPiGPZOr
bUtUxCu9S1ZtT/BwpkO4JaMozoHOhVuB87ozeYcUrWvtxmwXEOPXK3SoNEdMATFg
EQIDAQAB
-----END PUBLIC KEY-----`

const manifestURL = "https://driftwatch.dev/cli-endpoints.json"

// fetchFromServer retrieves the manifest, verifying its signature when the
// server provides one.
func fetchFromServer(ctx context.Context) (*Manifest, error) {
	client := &http.Client{Timeout: 15 * time.Second}

	req, err := http.NewRequestWithContext(ctx, "GET", manifestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "driftwatch-cli/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if sig := resp.Header.Get("X-Manifest-Signature"); sig != "" {
		if err := verifySignature(body, sig); err != nil {
			return nil, fmt.Errorf("signature verification failed: %w", err)
		}
	}

	var manifest Manifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest JSON: %w", err)
	}

	if manifest.Version == 0 {
		return nil, fmt.Errorf("invalid manifest: missing version field")
	}
	if manifest.GRPC.Bridge == "" {
		return nil, fmt.Errorf("invalid manifest: missing grpc.bridge field")
	}

	return &manifest, nil
}

// verifySignature validates the RSA-SHA256 signature of the manifest body.
func verifySignature(body []byte, signatureB64 string) error {
	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	block, _ := pem.Decode([]byte(manifestPublicKeyPEM))
	if block == nil {
		return fmt.Errorf("failed to parse PEM block")
	}
	pubKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return fmt.Errorf("parse public key: %w", err)
	}
	rsaPubKey, ok := pubKey.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("not an RSA public key")
	}

	hash := sha256.Sum256(body)
	if err := rsa.VerifyPKCS1v15(rsaPubKey, crypto.SHA256, hash[:], sig); err != nil {
		return fmt.Errorf("signature mismatch: %w", err)
	}
	return nil
}
