package downloader

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/util/files"
	"language-learner/internal/config"
)

// sftpSession is an open SFTP client plus whatever must be closed with it.
type sftpSession struct {
	client *sftp.Client
	closer io.Closer
}

func (s *sftpSession) Close() error {
	err := s.client.Close()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

type sftpDialer func(ctx context.Context, cfg config.SFTPConfig) (*sftpSession, error)

// SFTPFetcher downloads lessons from an SFTP server.
type SFTPFetcher struct {
	dial   sftpDialer
	logger *zap.Logger
}

// NewSFTPFetcher returns a fetcher that dials over SSH.
func NewSFTPFetcher(logger *zap.Logger) *SFTPFetcher {
	return &SFTPFetcher{dial: dialSFTP, logger: logger}
}

// RemotePath is where lesson lives on the server.
func RemotePath(cfg config.SFTPConfig, lesson config.Lesson) string {
	name := lesson.Filename
	if lesson.Path != "" {
		name = lesson.Path
	}
	if path.IsAbs(name) {
		return name
	}
	dir := cfg.RemoteDir
	if dir == "" {
		dir = "."
	}
	return path.Join(dir, name)
}

// Fetch copies the remote lesson into dest.
func (f *SFTPFetcher) Fetch(ctx context.Context, src config.Source, lesson config.Lesson, dest string) error {
	if src.SFTP == nil {
		return apperrors.RequiredField("sftp")
	}

	session, err := f.dial(ctx, *src.SFTP)
	if err != nil {
		return err
	}
	defer session.Close()

	remotePath := RemotePath(*src.SFTP, lesson)
	remote, err := session.client.Open(remotePath)
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.Wrapf(apperrors.ErrSourceNotFound, apperrors.KindProvider, "sftp %s:%s", src.SFTP.Host, remotePath)
		}
		return fmt.Errorf("sftp: open remote file: %w", err)
	}
	defer remote.Close()

	f.logger.Debug("copying from sftp", zap.String("remote", remotePath))
	return files.WriteAtomic(dest, 0o644, func(w io.Writer) error {
		if _, err := io.Copy(w, readerWithContext(ctx, remote)); err != nil {
			return fmt.Errorf("sftp: download copy: %w", err)
		}
		return nil
	})
}

func dialSFTP(ctx context.Context, cfg config.SFTPConfig) (*sftpSession, error) {
	hostKey, err := hostKeyCallback(cfg)
	if err != nil {
		return nil, err
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            authMethods(cfg),
		HostKeyCallback: hostKey,
		Timeout:         20 * time.Second,
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, sshCfg)
		ch <- dialRes{client: c, err: err}
	}()

	var sshClient *ssh.Client
	select {
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.client != nil {
				r.client.Close()
			}
		}()
		return nil, fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("sftp: dial error: %w", r.err)
		}
		sshClient = r.client
	}

	sftpCli, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("sftp: new client: %w", err)
	}
	return &sftpSession{client: sftpCli, closer: sshClient}, nil
}

func authMethods(cfg config.SFTPConfig) []ssh.AuthMethod {
	var methods []ssh.AuthMethod
	if pass := config.ResolveSecret(cfg.Password); pass != "" {
		methods = append(methods, ssh.Password(pass))
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return methods
	}
	var signers []ssh.Signer
	for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
		data, err := os.ReadFile(filepath.Join(home, ".ssh", name))
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			continue
		}
		signers = append(signers, signer)
	}
	if len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}
	return methods
}

func hostKeyCallback(cfg config.SFTPConfig) (ssh.HostKeyCallback, error) {
	if cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("sftp: locate known_hosts: %w", err)
	}
	cb, err := knownhosts.New(filepath.Join(home, ".ssh", "known_hosts"))
	if err != nil {
		return nil, fmt.Errorf("sftp: load known_hosts (set insecure_ignore_host_key for development): %w", err)
	}
	return cb, nil
}
