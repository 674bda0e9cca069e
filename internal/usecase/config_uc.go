package usecase

import (
	"context"
	"fmt"
	"time"

	"systems-console/internal/domain"
	"systems-console/internal/domain/model"
	"systems-console/internal/domain/ports/adapter"
	"systems-console/internal/domain/ports/repository"
	"systems-console/internal/infra/logging"
	"systems-console/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ConfigUseCase = (*configUC)(nil)

// Download is a resolved configuration file revision ready to be streamed.
type Download struct {
	File     *model.ConfigFile
	Revision *model.ConfigRevision
}

func (d *Download) FileName() string    { return d.File.FileName() }
func (d *Download) ContentType() string { return d.Revision.ContentType() }
func (d *Download) Contents() []byte    { return d.Revision.Content.Contents }

// DownloadLimit throttles downloads per user. A zero Limit disables throttling.
type DownloadLimit struct {
	Limit  int
	Window time.Duration
}

type ConfigUseCase interface {
	Download(ctx context.Context, actor *model.User, fileID, revisionID int64) (*Download, error)
}

type configUC struct {
	configs repository.ConfigRepository
	limiter adapter.RateLimiter // optional
	limit   DownloadLimit
	log     *zerolog.Logger
}

// NewConfigUseCase builds the download use case. limiter may be nil.
func NewConfigUseCase(configs repository.ConfigRepository, limiter adapter.RateLimiter, limit DownloadLimit, logger *zerolog.Logger) *configUC {
	return &configUC{
		configs: configs,
		limiter: limiter,
		limit:   limit,
		log:     logger,
	}
}

func (uc *configUC) Download(ctx context.Context, actor *model.User, fileID, revisionID int64) (*Download, error) {
	defer logging.TraceDuration(uc.log, "ConfigUC.Download")()
	if err := requireConfigAdmin(actor); err != nil {
		return nil, err
	}
	if err := uc.throttle(ctx, actor); err != nil {
		return nil, err
	}

	file, err := uc.configs.FindFileByID(ctx, repository.NoTX, fileID)
	if err != nil {
		return nil, fmt.Errorf("lookup config file %d: %w", fileID, err)
	}
	if file.OrgID != actor.OrgID {
		return nil, fmt.Errorf("lookup config file %d: %w", fileID, domain.ErrNotFound)
	}
	rev, err := uc.configs.FindRevisionByID(ctx, repository.NoTX, revisionID)
	if err != nil {
		return nil, fmt.Errorf("lookup config revision %d: %w", revisionID, err)
	}
	if rev.ConfigFileID != file.ID {
		return nil, fmt.Errorf("revision %d of file %d: %w", revisionID, fileID, domain.ErrNotFound)
	}

	metrics.IncConfigDownload(rev.Content.Binary)
	logging.With(ctx, uc.log).Debug().
		Int64("file_id", file.ID).
		Int64("revision", rev.Revision).
		Bool("binary", rev.Content.Binary).
		Msg("config revision download")
	return &Download{File: file, Revision: rev}, nil
}

// throttle fails open: a broken limiter backend never blocks downloads.
func (uc *configUC) throttle(ctx context.Context, actor *model.User) error {
	if uc.limiter == nil || uc.limit.Limit <= 0 {
		return nil
	}
	ok, err := uc.limiter.Allow(ctx, DownloadRateKey(actor.ID), uc.limit.Limit, uc.limit.Window)
	if err != nil {
		logging.With(ctx, uc.log).Warn().Err(err).Msg("download rate limiter unavailable")
		return nil
	}
	if !ok {
		return domain.ErrRateLimited
	}
	return nil
}

// DownloadRateKey is the limiter key counting downloads of userID.
func DownloadRateKey(userID int64) string {
	return fmt.Sprintf("rate_limit:download:%d", userID)
}
