package domain

// TasksForBookingEvent разворачивает событие жизненного цикла бронирования
// в набор задач уведомлений по каналам и получателям.
//
// created   -> email провайдеру и клиенту, sms клиенту
// confirmed -> email клиенту
// completed -> email клиенту
// cancelled -> email обеим сторонам
//
// SMS-канал заведомо без отправителя: задачи дойдут до статуса
// not_implemented на этапе drain, контрольный поток остается общим.
func TasksForBookingEvent(b *Booking, event NotificationType) []*NotificationTask {
	task := func(recipientID int64, channel NotificationChannel) *NotificationTask {
		return &NotificationTask{
			BookingID:        b.ID,
			RecipientID:      recipientID,
			Channel:          channel,
			NotificationType: event,
			Status:           TaskPending,
		}
	}

	switch event {
	case NotifyBookingCreated:
		return []*NotificationTask{
			task(b.ProviderID, ChannelEmail),
			task(b.CustomerID, ChannelEmail),
			task(b.CustomerID, ChannelSMS),
		}
	case NotifyBookingConfirmed, NotifyBookingCompleted:
		return []*NotificationTask{
			task(b.CustomerID, ChannelEmail),
		}
	case NotifyBookingCancelled:
		return []*NotificationTask{
			task(b.ProviderID, ChannelEmail),
			task(b.CustomerID, ChannelEmail),
		}
	default:
		return nil
	}
}
