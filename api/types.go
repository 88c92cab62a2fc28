package api

// AuthResult is the response of a successful password authentication.
type AuthResult struct {
	Record AuthRecord `json:"record"`
	Token  string     `json:"token"`
}

// AuthRecord is the authenticated account.
type AuthRecord struct {
	ID             string   `json:"id"`
	CollectionID   string   `json:"collectionId"`
	CollectionName string   `json:"collectionName"`
	Created        string   `json:"created"`
	Updated        string   `json:"updated"`
	Email          string   `json:"email"`
	EmailVisible   bool     `json:"emailVisibility"`
	Username       string   `json:"username"`
	Role           string   `json:"role"`
	Face           int      `json:"face"`
	Friends        []string `json:"friends"`
	Banned         bool     `json:"banned"`
	Verified       bool     `json:"verified"`
	IsSuspicious   bool     `json:"isSuspicious"`
	LastSeen       string   `json:"lastSeen"`
	LastWorld      string   `json:"lastWorld"`
	LastWorldTitle string   `json:"lastWorldTitle"`
}

// JoinKeyResult carries the short-lived token used to open a world socket.
type JoinKeyResult struct {
	Token string `json:"token"`
}

// CollectionResult is one page of a collection listing.
type CollectionResult[T any] struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Items      []T `json:"items"`
}

// World is a world record.
type World struct {
	ID             string `json:"id"`
	CollectionID   string `json:"collectionId"`
	CollectionName string `json:"collectionName"`
	Created        string `json:"created"`
	Updated        string `json:"updated"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Owner          string `json:"owner"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Plays          int    `json:"plays"`
	Visibility     string `json:"visibility"`
	Minimap        string `json:"minimap"`
	MinimapEnabled bool   `json:"minimapEnabled"`
	Data           string `json:"data"`
}

// Player is a public profile record.
type Player struct {
	ID             string `json:"id"`
	CollectionID   string `json:"collectionId"`
	CollectionName string `json:"collectionName"`
	Created        string `json:"created"`
	Username       string `json:"username"`
	Role           string `json:"role"`
	Face           int    `json:"face"`
	Banned         bool   `json:"banned"`
}

// LobbyResult lists the rooms currently online.
type LobbyResult struct {
	OnlineRoomCount   int          `json:"onlineRoomCount"`
	OnlinePlayerCount int          `json:"onlinePlayerCount"`
	VisibleRooms      []LobbyWorld `json:"visibleRooms"`
}

// LobbyWorld is one online room.
type LobbyWorld struct {
	ID         string         `json:"id"`
	Players    int            `json:"players"`
	MaxPlayers int            `json:"max_players"`
	Data       LobbyWorldData `json:"data"`
}

// LobbyWorldData describes an online room.
type LobbyWorldData struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Plays          int    `json:"plays"`
	MinimapEnabled bool   `json:"minimapEnabled"`
	Type           int    `json:"type"`
}

// AtlasResult is a texture-packer atlas description.
type AtlasResult struct {
	Frames []AtlasFrame `json:"frames"`
	Meta   AtlasMeta    `json:"meta"`
}

// AtlasFrame is one sprite inside an atlas image.
type AtlasFrame struct {
	Filename         string             `json:"filename"`
	Frame            map[string]int     `json:"frame"`
	Rotated          bool               `json:"rotated"`
	Trimmed          bool               `json:"trimmed"`
	SpriteSourceSize map[string]int     `json:"spriteSourceSize"`
	SourceSize       map[string]int     `json:"sourceSize"`
	Pivot            map[string]float64 `json:"pivot"`
}

// AtlasMeta describes the atlas image.
type AtlasMeta struct {
	App     string         `json:"app"`
	Version string         `json:"version"`
	Image   string         `json:"image"`
	Format  string         `json:"format"`
	Size    map[string]int `json:"size"`
	Scale   float64        `json:"scale"`
}
