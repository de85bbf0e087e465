package model

import "time"

/*

Like is the single cross-type ledger of like facts

UserID: villager who liked
ContentType: storage feed type of the liked row (OFFICIAL is folded into
		ALERT before writing, the ledger only knows storage types)
ContentID: native id of the liked row in its own store
CreatedAt: time when relation is created

Existence of a row means "liked". Unlike is a hard delete, there is no
history. The composite primary key is the only concurrency guard for the
simultaneous-like race.

*/

type Like struct {
	UserID      string       `gorm:"primaryKey"`
	ContentType FeedItemType `gorm:"primaryKey"`
	ContentID   string       `gorm:"primaryKey"`
	CreatedAt   time.Time
}
