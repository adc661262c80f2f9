package storage

import (
	"context"
	"fmt"
	"path"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

type SFTPConfig struct {
	Addr       string
	User       string
	Password   string
	Dir        string
	KnownHosts string
	BaseURL    string
}

// SFTPStore uploads images to a remote host that serves Dir at BaseURL.
type SFTPStore struct {
	conn    *ssh.Client
	client  *sftp.Client
	dir     string
	baseURL string
}

func NewSFTPStore(cfg SFTPConfig) (*SFTPStore, error) {
	hostKeys, err := knownhosts.New(cfg.KnownHosts)
	if err != nil {
		return nil, fmt.Errorf("storage: known hosts: %w", err)
	}

	conn, err := ssh.Dial("tcp", cfg.Addr, &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: hostKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: ssh dial %s: %w", cfg.Addr, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: sftp session: %w", err)
	}
	if err := client.MkdirAll(cfg.Dir); err != nil {
		client.Close()
		conn.Close()
		return nil, fmt.Errorf("storage: mkdir %s: %w", cfg.Dir, err)
	}

	return &SFTPStore{conn: conn, client: client, dir: cfg.Dir, baseURL: cfg.BaseURL}, nil
}

func (s *SFTPStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst := path.Join(s.dir, path.Base(name))

	f, err := s.client.Create(dst)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", dst, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("storage: write %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("storage: close %s: %w", dst, err)
	}
	return publicURL(s.baseURL, name), nil
}

func (s *SFTPStore) Close() error {
	err := s.client.Close()
	if cerr := s.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
