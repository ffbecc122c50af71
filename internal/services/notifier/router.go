package notifier

import (
	"context"

	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/NordCoder/Upkeep/internal/obs"
	"go.uber.org/zap"
)

const ChannelSharePoint = "sharepoint"

// Router forwards notifications that can be exported to SharePoint/Teams.
// It never fails: notifications without the capability are skipped with a
// warning and delivery errors are only counted.
type Router struct {
	client notification.SharePointClient
	log    *zap.Logger
}

func NewRouter(client notification.SharePointClient, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{client: client, log: log.With(zap.String("component", "notifier.sharepoint"))}
}

func (r *Router) Name() string { return ChannelSharePoint }

func (r *Router) Route(ctx context.Context, to notification.Recipient, n notification.Notification) {
	exp, ok := n.(notification.Exportable)
	if !ok {
		r.log.Warn("notification cannot be exported to SharePoint", zap.String("kind", string(n.Type())))
		mDeliveries.WithLabelValues(ChannelSharePoint, "skipped").Inc()
		return
	}

	msg := exp.ToSharePoint(to)
	if err := r.client.CreateNotification(ctx, msg.Title, msg.Message, msg.UserEmail); err != nil {
		mDeliveries.WithLabelValues(ChannelSharePoint, "error").Inc()
		obs.WithTrace(ctx, r.log).Debug("sharepoint delivery failed",
			zap.String("kind", string(n.Type())), zap.Int64("user_id", to.ID), zap.Error(err))
		return
	}
	mDeliveries.WithLabelValues(ChannelSharePoint, "ok").Inc()
}

// Deliver adapts the router to the channel contract of Sender.
func (r *Router) Deliver(ctx context.Context, to notification.Recipient, n notification.Notification) error {
	r.Route(ctx, to, n)
	return nil
}
