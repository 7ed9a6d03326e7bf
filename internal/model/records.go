package model

import "time"

const DefaultListName = "default"

type UserSettings struct {
	DefaultList string `json:"defaultList"`
}

type UserRecord struct {
	Lists    map[string]List `json:"lists"`
	Settings UserSettings    `json:"settings"`
}

func NewUserRecord(now time.Time) UserRecord {
	return UserRecord{
		Lists:    map[string]List{DefaultListName: NewList(now)},
		Settings: UserSettings{DefaultList: DefaultListName},
	}
}

// ActiveName is the list personal commands operate on.
func (u UserRecord) ActiveName() string {
	if u.Settings.DefaultList == "" {
		return DefaultListName
	}
	return u.Settings.DefaultList
}

// ActiveList returns the active list, creating it when the record lacks it.
func (u *UserRecord) ActiveList(now time.Time) List {
	name := u.ActiveName()
	if u.Lists == nil {
		u.Lists = make(map[string]List)
	}
	l, ok := u.Lists[name]
	if !ok {
		l = NewList(now)
		u.Lists[name] = l
	}
	return l
}

func (u *UserRecord) SetActiveList(l List) {
	if u.Lists == nil {
		u.Lists = make(map[string]List)
	}
	u.Lists[u.ActiveName()] = l
}

type ChannelRecord struct {
	List     List           `json:"list"`
	Settings map[string]any `json:"settings"`
}

func NewChannelRecord(now time.Time) ChannelRecord {
	return ChannelRecord{List: NewList(now), Settings: map[string]any{}}
}

type GuildRecord struct {
	Settings    map[string]any  `json:"settings"`
	SharedLists map[string]List `json:"sharedLists"`
}

func NewGuildRecord() GuildRecord {
	return GuildRecord{Settings: map[string]any{}, SharedLists: map[string]List{}}
}

// Document is the whole persisted store.
type Document struct {
	Users    map[string]UserRecord    `json:"users"`
	Channels map[string]ChannelRecord `json:"channels"`
	Guilds   map[string]GuildRecord   `json:"guilds"`
}

func NewDocument() Document {
	return Document{
		Users:    map[string]UserRecord{},
		Channels: map[string]ChannelRecord{},
		Guilds:   map[string]GuildRecord{},
	}
}

// Normalize fills nil maps left by partial documents.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = map[string]UserRecord{}
	}
	if d.Channels == nil {
		d.Channels = map[string]ChannelRecord{}
	}
	if d.Guilds == nil {
		d.Guilds = map[string]GuildRecord{}
	}
}
