package export

import (
	"context"
	"net"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/conversehq/merchant-cli/internal/config"
)

// FTPUploader drops exported workbooks on a reporting FTP share.
type FTPUploader struct {
	cfg     config.FTPConfig
	timeout time.Duration
}

// NewFTPUploader creates an uploader from configuration.
func NewFTPUploader(cfg config.FTPConfig) *FTPUploader {
	return &FTPUploader{cfg: cfg, timeout: 30 * time.Second}
}

// Upload stores a local file on the share under the configured directory.
func (u *FTPUploader) Upload(ctx context.Context, localPath string) error {
	if u.cfg.Addr == "" {
		return eris.New("ftp: no address configured")
	}

	host := u.cfg.Addr
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "21")
	}

	zap.L().Debug("ftp: connecting", zap.String("host", host))

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(u.timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return eris.Wrap(err, "ftp: dial")
	}
	defer conn.Quit()

	user := u.cfg.User
	pass := u.cfg.Password
	if user == "" {
		user = "anonymous"
		pass = "anonymous@"
	}
	if err := conn.Login(user, pass); err != nil {
		return eris.Wrap(err, "ftp: login")
	}

	f, err := os.Open(localPath)
	if err != nil {
		return eris.Wrap(err, "ftp: open local file")
	}
	defer f.Close()

	remote := filepath.Base(localPath)
	if u.cfg.Dir != "" {
		remote = path.Join(u.cfg.Dir, remote)
	}
	if err := conn.Stor(remote, f); err != nil {
		return eris.Wrapf(err, "ftp: store %s", remote)
	}

	zap.L().Info("ftp: uploaded workbook",
		zap.String("host", host),
		zap.String("remote", remote),
	)
	return nil
}
