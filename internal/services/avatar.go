package services

import (
  "bytes"
  "context"
  "fmt"
  "os"
  "strings"
  "github.com/fogleman/gg"
  "github.com/golang/freetype/truetype"
  "golang.org/x/image/font"
  "github.com/Not-Another-Coach/nac-backend/internal/clients/gcs"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

const avatarSize = 512

// avatarPalette backgrounds are picked deterministically from the user id so
// the same user always renders the same color.
var avatarPalette = []string{
  "#1abc9c", "#3498db", "#9b59b6", "#e67e22",
  "#e74c3c", "#16a085", "#2980b9", "#8e44ad",
}

type AvatarService interface {
  CreateAndUploadUserAvatar(ctx context.Context, user *types.User) error
}

type avatarService struct {
  log      *logger.Logger
  bucket   gcs.BucketService
  fontPath string
}

func NewAvatarService(log *logger.Logger, bucket gcs.BucketService) AvatarService {
  return &avatarService{
    log:      log.With("service", "AvatarService"),
    bucket:   bucket,
    fontPath: strings.TrimSpace(os.Getenv("AVATAR_FONT_PATH")),
  }
}

// CreateAndUploadUserAvatar renders an initials placeholder and stores it in
// the avatar bucket. The caller decides whether a failure here is fatal;
// registration treats it as best-effort.
func (as *avatarService) CreateAndUploadUserAvatar(ctx context.Context, user *types.User) error {
  if as.bucket == nil {
    return fmt.Errorf("bucket service unavailable")
  }
  if user == nil {
    return fmt.Errorf("user required")
  }

  img, err := as.renderInitials(initialsFor(user.FirstName, user.LastName), colorFor(user.ID[:]))
  if err != nil {
    return fmt.Errorf("Failed to render avatar: %w", err)
  }

  key := fmt.Sprintf("avatars/%s.png", user.ID)
  if err := as.bucket.UploadFile(ctx, gcs.BucketCategoryAvatar, key, img); err != nil {
    return fmt.Errorf("Failed to upload avatar: %w", err)
  }
  user.AvatarBucketKey = key
  user.AvatarURL = as.bucket.GetPublicURL(gcs.BucketCategoryAvatar, key)
  return nil
}

func (as *avatarService) renderInitials(initials, bgColor string) (*bytes.Buffer, error) {
  dc := gg.NewContext(avatarSize, avatarSize)
  dc.SetHexColor(bgColor)
  dc.Clear()

  if face := as.loadFace(avatarSize * 0.4); face != nil && initials != "" {
    dc.SetFontFace(face)
    dc.SetHexColor("#ffffff")
    dc.DrawStringAnchored(initials, avatarSize/2, avatarSize/2, 0.5, 0.5)
  }

  var buf bytes.Buffer
  if err := dc.EncodePNG(&buf); err != nil {
    return nil, err
  }
  return &buf, nil
}

// loadFace returns nil when no usable font is configured; the avatar is then
// a plain color block, which is still better than no avatar at all.
func (as *avatarService) loadFace(points float64) font.Face {
  if as.fontPath == "" {
    return nil
  }
  raw, err := os.ReadFile(as.fontPath)
  if err != nil {
    as.log.Warn("Failed to read avatar font, rendering without initials", "path", as.fontPath, "error", err)
    return nil
  }
  parsed, err := truetype.Parse(raw)
  if err != nil {
    as.log.Warn("Failed to parse avatar font, rendering without initials", "path", as.fontPath, "error", err)
    return nil
  }
  return truetype.NewFace(parsed, &truetype.Options{Size: points})
}

func initialsFor(first, last string) string {
  var b strings.Builder
  if f := strings.TrimSpace(first); f != "" {
    b.WriteString(strings.ToUpper(f[:1]))
  }
  if l := strings.TrimSpace(last); l != "" {
    b.WriteString(strings.ToUpper(l[:1]))
  }
  return b.String()
}

func colorFor(seed []byte) string {
  var sum int
  for _, b := range seed {
    sum += int(b)
  }
  return avatarPalette[sum%len(avatarPalette)]
}
