package services

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/C241-PS090/backend-api/internal/storage"
	"github.com/sirupsen/logrus"
)

// assetPrefix is the bucket prefix under which profile pictures live.
const assetPrefix = "profile_pictures/"

// ProfilePictureService stores at most one profile picture per user in
// the blob store and produces its public URL.
type ProfilePictureService struct {
	storage *storage.Storage
	log     *logrus.Logger
}

func NewProfilePictureService(st *storage.Storage, log *logrus.Logger) *ProfilePictureService {
	return &ProfilePictureService{storage: st, log: log}
}

// Replace uploads a new profile picture for the user and returns its
// public URL. If currentURL points at an object whose name starts with
// "{userID}_", that object is deleted first; the delete is best-effort
// and a failure is logged, never fatal. The caller persists the
// returned URL on the user record; the two steps are not atomic.
func (s *ProfilePictureService) Replace(ctx context.Context, userID, currentURL, originalName, contentType string, data []byte) (string, error) {
	if currentURL != "" {
		s.deleteCurrent(ctx, userID, currentURL)
	}

	key := assetPrefix + objectName(userID, originalName)
	if err := s.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}

	url := s.storage.PublicURL(key)
	s.log.WithFields(logrus.Fields{"userId": userID, "url": url}).Info("uploaded new profile picture")
	return url, nil
}

// deleteCurrent removes the user's previous picture when its object
// name carries the user's prefix. Objects without the prefix are left
// untouched.
func (s *ProfilePictureService) deleteCurrent(ctx context.Context, userID, currentURL string) {
	oldName := path.Base(currentURL)
	if !strings.HasPrefix(oldName, userID+"_") {
		return
	}
	if err := s.storage.Delete(ctx, assetPrefix+oldName); err != nil {
		s.log.WithError(err).WithField("object", oldName).Warn("failed to delete old profile picture")
		return
	}
	s.log.WithField("object", oldName).Info("deleted old profile picture")
}

func objectName(userID, originalName string) string {
	return userID + "_" + originalName
}
