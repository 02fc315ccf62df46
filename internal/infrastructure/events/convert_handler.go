package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	appvideo "github.com/narwhalmedia/catalog/internal/application/video"
	"github.com/narwhalmedia/catalog/internal/domain/video"
	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
	"github.com/narwhalmedia/catalog/pkg/logger"
)

// ConvertedMessage is the encoder's report for one uploaded file.
type ConvertedMessage struct {
	Video struct {
		ResourceID         string `json:"resource_id"`
		EncodedVideoFolder string `json:"encoded_video_folder"`
	} `json:"video"`
	Status string `json:"status"`
}

// MediaProcessor applies encoder results to videos.
type MediaProcessor interface {
	ProcessAudioVideoMedia(ctx context.Context, cmd appvideo.ProcessAudioVideoMediaCommand) error
}

// ConvertHandler consumes encoder results from the convert routing key.
type ConvertHandler struct {
	processor MediaProcessor
	logger    *zap.Logger
}

func NewConvertHandler(processor MediaProcessor, logger *zap.Logger) *ConvertHandler {
	return &ConvertHandler{processor: processor, logger: logger.Named("convert")}
}

// Handle returns a Permanent error for messages that can never succeed:
// malformed bodies, unknown videos and results that don't fit the media
// state machine. Any other error is worth a retry.
func (h *ConvertHandler) Handle(ctx context.Context, msg Message) error {
	if id := msg.Headers[HeaderCorrelationID]; id != "" {
		ctx = logger.WithRequestID(ctx, id)
	}

	var in ConvertedMessage
	if err := json.Unmarshal(msg.Body, &in); err != nil {
		return Permanent(fmt.Errorf("decode convert message: %w", err))
	}
	if in.Video.ResourceID == "" {
		return Permanent(errors.New("convert message has no video.resource_id"))
	}

	videoID, field, err := video.ParseResourceID(in.Video.ResourceID)
	if err != nil {
		return Permanent(err)
	}

	err = h.processor.ProcessAudioVideoMedia(ctx, appvideo.ProcessAudioVideoMediaCommand{
		VideoID:         videoID,
		Field:           string(field),
		EncodedLocation: in.Video.EncodedVideoFolder,
		Status:          in.Status,
	})
	if err == nil {
		h.logger.Info("Encoder result applied",
			zap.String("resource_id", in.Video.ResourceID),
			zap.String("status", in.Status),
		)
		return nil
	}

	if video.IsMediaStateError(err) || pkgerrors.IsNotFound(err) || pkgerrors.IsValidation(err) {
		return Permanent(err)
	}
	return err
}
