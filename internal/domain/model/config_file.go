package model

import (
	"path"
	"time"
)

// Content types served for configuration file revisions.
const (
	ContentTypeText   = "text/plain; charset=utf-8"
	ContentTypeBinary = "application/octet-stream"
)

// ConfigFile is a managed configuration file living in a config channel.
type ConfigFile struct {
	ID               int64
	OrgID            int64
	ChannelLabel     string
	Path             string
	LatestRevisionID *int64
	CreatedAt        time.Time
}

// FileName is the last element of the file's path.
func (f *ConfigFile) FileName() string { return path.Base(f.Path) }

// ConfigContent holds the stored bytes of a revision.
type ConfigContent struct {
	Contents []byte
	Binary   bool
}

// ConfigRevision is one version of a ConfigFile.
type ConfigRevision struct {
	ID           int64
	ConfigFileID int64
	Revision     int64
	Content      ConfigContent
	CreatedAt    time.Time
}

// ContentType is the HTTP content type the revision is served with.
func (r *ConfigRevision) ContentType() string {
	if r.Content.Binary {
		return ContentTypeBinary
	}
	return ContentTypeText
}
