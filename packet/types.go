package packet

// Message is implemented by every packet value in the catalog.
type Message interface {
	// AppendProto appends the protobuf encoding of the message to b.
	AppendProto(b []byte) []byte
	// UnmarshalProto replaces the message contents with the decoding of b.
	UnmarshalProto(b []byte) error
}

// Ping is the server's liveness probe; the client answers with an empty Ping.
type Ping struct{}

func (p *Ping) AppendProto(b []byte) []byte { return b }

func (p *Ping) UnmarshalProto(b []byte) error {
	*p = Ping{}
	return walk(b, func(field) error { return nil })
}

// PlayerProperties describes a player in the world.
type PlayerProperties struct {
	PlayerID     int32
	AccountID    string
	Username     string
	Face         int32
	Role         string
	IsFriend     bool
	IsWorldOwner bool
}

func (p *PlayerProperties) AppendProto(b []byte) []byte {
	b = appendInt32(b, 1, p.PlayerID)
	b = appendString(b, 2, p.AccountID)
	b = appendString(b, 3, p.Username)
	b = appendInt32(b, 4, p.Face)
	b = appendString(b, 5, p.Role)
	b = appendBool(b, 6, p.IsFriend)
	return appendBool(b, 7, p.IsWorldOwner)
}

func (p *PlayerProperties) UnmarshalProto(b []byte) error {
	*p = PlayerProperties{}
	return walk(b, func(f field) (err error) {
		switch f.num {
		case 1:
			p.PlayerID, err = f.int32()
		case 2:
			p.AccountID, err = f.string()
		case 3:
			p.Username, err = f.string()
		case 4:
			p.Face, err = f.int32()
		case 5:
			p.Role, err = f.string()
		case 6:
			p.IsFriend, err = f.bool()
		case 7:
			p.IsWorldOwner, err = f.bool()
		}
		return err
	})
}

// PlayerInitPacket is the first packet sent to a joining client.
type PlayerInitPacket struct {
	PlayerProperties *PlayerProperties
	WorldWidth       int32
	WorldHeight      int32
	WorldData        []byte
}

func (p *PlayerInitPacket) AppendProto(b []byte) []byte {
	if p.PlayerProperties != nil {
		b = appendMessage(b, 1, p.PlayerProperties)
	}
	b = appendInt32(b, 2, p.WorldWidth)
	b = appendInt32(b, 3, p.WorldHeight)
	return appendBytes(b, 4, p.WorldData)
}

func (p *PlayerInitPacket) UnmarshalProto(b []byte) error {
	*p = PlayerInitPacket{}
	return walk(b, func(f field) (err error) {
		switch f.num {
		case 1:
			var raw []byte
			if raw, err = f.bytes(); err != nil {
				return err
			}
			p.PlayerProperties = new(PlayerProperties)
			err = p.PlayerProperties.UnmarshalProto(raw)
		case 2:
			p.WorldWidth, err = f.int32()
		case 3:
			p.WorldHeight, err = f.int32()
		case 4:
			var raw []byte
			if raw, err = f.bytes(); err == nil {
				p.WorldData = append([]byte(nil), raw...)
			}
		}
		return err
	})
}

// IsWorldOwner reports whether the init packet marks the local player as the
// owner of the world.
func (p *PlayerInitPacket) IsWorldOwner() bool {
	return p != nil && p.PlayerProperties != nil && p.PlayerProperties.IsWorldOwner
}

// PlayerInitReceived acknowledges a PlayerInitPacket.
type PlayerInitReceived struct{}

func (p *PlayerInitReceived) AppendProto(b []byte) []byte { return b }

func (p *PlayerInitReceived) UnmarshalProto(b []byte) error {
	*p = PlayerInitReceived{}
	return walk(b, func(field) error { return nil })
}

// PlayerChatPacket is a chat line. Outbound, PlayerID is ignored by the server.
type PlayerChatPacket struct {
	PlayerID int32
	Message  string
}

func (p *PlayerChatPacket) AppendProto(b []byte) []byte {
	b = appendInt32(b, 1, p.PlayerID)
	return appendString(b, 2, p.Message)
}

func (p *PlayerChatPacket) UnmarshalProto(b []byte) error {
	*p = PlayerChatPacket{}
	return walk(b, func(f field) (err error) {
		switch f.num {
		case 1:
			p.PlayerID, err = f.int32()
		case 2:
			p.Message, err = f.string()
		}
		return err
	})
}

// PlayerJoinedPacket announces another player entering the world.
type PlayerJoinedPacket struct {
	Properties *PlayerProperties
}

func (p *PlayerJoinedPacket) AppendProto(b []byte) []byte {
	if p.Properties != nil {
		b = appendMessage(b, 1, p.Properties)
	}
	return b
}

func (p *PlayerJoinedPacket) UnmarshalProto(b []byte) error {
	*p = PlayerJoinedPacket{}
	return walk(b, func(f field) error {
		if f.num != 1 {
			return nil
		}
		raw, err := f.bytes()
		if err != nil {
			return err
		}
		p.Properties = new(PlayerProperties)
		return p.Properties.UnmarshalProto(raw)
	})
}

// PlayerLeftPacket announces a player leaving the world.
type PlayerLeftPacket struct {
	PlayerID int32
}

func (p *PlayerLeftPacket) AppendProto(b []byte) []byte {
	return appendInt32(b, 1, p.PlayerID)
}

func (p *PlayerLeftPacket) UnmarshalProto(b []byte) error {
	*p = PlayerLeftPacket{}
	return walk(b, func(f field) (err error) {
		if f.num == 1 {
			p.PlayerID, err = f.int32()
		}
		return err
	})
}

// SystemMessagePacket is a server notice, such as the output of /help.
type SystemMessagePacket struct {
	Title   string
	Message string
	IsPopup bool
}

func (p *SystemMessagePacket) AppendProto(b []byte) []byte {
	b = appendString(b, 1, p.Title)
	b = appendString(b, 2, p.Message)
	return appendBool(b, 3, p.IsPopup)
}

func (p *SystemMessagePacket) UnmarshalProto(b []byte) error {
	*p = SystemMessagePacket{}
	return walk(b, func(f field) (err error) {
		switch f.num {
		case 1:
			p.Title, err = f.string()
		case 2:
			p.Message, err = f.string()
		case 3:
			p.IsPopup, err = f.bool()
		}
		return err
	})
}

// PointInteger is a tile coordinate.
type PointInteger struct {
	X int32
	Y int32
}

func (p *PointInteger) AppendProto(b []byte) []byte {
	b = appendInt32(b, 1, p.X)
	return appendInt32(b, 2, p.Y)
}

func (p *PointInteger) UnmarshalProto(b []byte) error {
	*p = PointInteger{}
	return walk(b, func(f field) (err error) {
		switch f.num {
		case 1:
			p.X, err = f.int32()
		case 2:
			p.Y, err = f.int32()
		}
		return err
	})
}

// WorldBlockPlacedPacket places BlockID at every position on Layer.
type WorldBlockPlacedPacket struct {
	PlayerID        int32
	IsFillOperation bool
	Positions       []PointInteger
	Layer           int32
	BlockID         int32
}

func (p *WorldBlockPlacedPacket) AppendProto(b []byte) []byte {
	b = appendInt32(b, 1, p.PlayerID)
	b = appendBool(b, 2, p.IsFillOperation)
	for i := range p.Positions {
		b = appendMessage(b, 3, &p.Positions[i])
	}
	b = appendInt32(b, 4, p.Layer)
	return appendInt32(b, 5, p.BlockID)
}

func (p *WorldBlockPlacedPacket) UnmarshalProto(b []byte) error {
	*p = WorldBlockPlacedPacket{}
	return walk(b, func(f field) (err error) {
		switch f.num {
		case 1:
			p.PlayerID, err = f.int32()
		case 2:
			p.IsFillOperation, err = f.bool()
		case 3:
			var raw []byte
			if raw, err = f.bytes(); err != nil {
				return err
			}
			var pt PointInteger
			if err = pt.UnmarshalProto(raw); err == nil {
				p.Positions = append(p.Positions, pt)
			}
		case 4:
			p.Layer, err = f.int32()
		case 5:
			p.BlockID, err = f.int32()
		}
		return err
	})
}

// PlayerFacePacket changes a player's smiley.
type PlayerFacePacket struct {
	PlayerID int32
	FaceID   int32
}

func (p *PlayerFacePacket) AppendProto(b []byte) []byte {
	b = appendInt32(b, 1, p.PlayerID)
	return appendInt32(b, 2, p.FaceID)
}

func (p *PlayerFacePacket) UnmarshalProto(b []byte) error {
	*p = PlayerFacePacket{}
	return walk(b, func(f field) (err error) {
		switch f.num {
		case 1:
			p.PlayerID, err = f.int32()
		case 2:
			p.FaceID, err = f.int32()
		}
		return err
	})
}
