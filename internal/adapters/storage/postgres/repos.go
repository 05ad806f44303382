package postgres

import (
	"carecircle/internal/domain/activity"
	"carecircle/internal/domain/circle"
	"carecircle/internal/domain/documents"
	"carecircle/internal/domain/medications"
	"carecircle/internal/domain/notifications"
	"carecircle/internal/domain/profiles"
	"carecircle/internal/domain/recipients"
	"carecircle/internal/domain/tasks"
	"carecircle/internal/domain/updates"
	"carecircle/internal/domain/visits"
)

var (
	_ recipients.Repository    = (*RecipientsRepo)(nil)
	_ circle.Repository        = (*MembershipsRepo)(nil)
	_ updates.Repository       = (*UpdatesRepo)(nil)
	_ medications.Repository   = (*MedicationsRepo)(nil)
	_ tasks.Repository         = (*TasksRepo)(nil)
	_ visits.Repository        = (*VisitsRepo)(nil)
	_ documents.Repository     = (*DocumentsRepo)(nil)
	_ notifications.Repository = (*NotificationsRepo)(nil)
	_ activity.Repository      = (*ActivityRepo)(nil)
	_ profiles.Repository      = (*ProfilesRepo)(nil)
)
