// Package main generates a Certificate Authority (CA) and a localhost server
// certificate for the development backend, writing them under "certs".
//
// Start the backend with -tls-cert certs/server.crt -tls-key certs/server.key
// and the client with -ca certs/ca.crt -url https://localhost:8080.
// Pass -ca-cert and -ca-key to re-issue the server certificate from an
// existing CA.
package main

import (
	"crypto/x509"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/SecureVault/internal/certgen"
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated server names")
	caCert := flag.String("ca-cert", "", "existing CA certificate to sign with (requires -ca-key)")
	caKey := flag.String("ca-key", "", "existing CA private key")
	flag.Parse()

	if err := run(*dir, strings.Split(*hosts, ","), *caCert, *caKey); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("✅ Certificates generated into ./%s\n", *dir)
}

// run writes server.crt and server.key into dir. Without caCertPath and
// caKeyPath a new CA is created and written as ca.crt and ca.key; with them
// the server certificate is signed by that existing CA.
func run(dir string, hosts []string, caCertPath, caKeyPath string) error {
	if (caCertPath == "") != (caKeyPath == "") {
		return errors.New("-ca-cert and -ca-key must be set together")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	type file struct {
		name string
		data []byte
	}
	var files []file

	var (
		caCert *x509.Certificate
		caKey  any
		err    error
	)
	if caCertPath != "" {
		caCert, caKey, err = certgen.LoadCACredentials(caCertPath, caKeyPath)
		if err != nil {
			return err
		}
	} else {
		caPEM, caKeyPEM, err := certgen.GenerateCA("SecureVault Dev CA", 10*365*24*time.Hour)
		if err != nil {
			return err
		}
		caCert, caKey, err = certgen.ParseCA(caPEM, caKeyPEM)
		if err != nil {
			return err
		}
		files = append(files, file{"ca.crt", caPEM}, file{"ca.key", caKeyPEM})
	}

	serverPEM, serverKeyPEM, err := certgen.GenerateServerCertificate(hosts, caCert, caKey)
	if err != nil {
		return err
	}
	files = append(files, file{"server.crt", serverPEM}, file{"server.key", serverKeyPEM})

	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), f.data, 0600); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}
