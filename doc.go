// Package pixelwalker provides a Go client for the PixelWalker game server.
//
// A Client holds one world connection at a time. Outbound packets pass
// through rate-limit buckets, inbound packets are decoded and handed to
// handlers registered per packet kind:
//
//   - JoinWorld: obtain a join key through the HTTP API and connect
//   - Send: queue a packet, or write it immediately with WithDirect
//   - AddCallback / OnPacket: register handlers; returning Stop ends the chain
//
// Basic usage:
//
//	creds, err := api.NewWithAccount(email, password)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := pixelwalker.NewClient(pixelwalker.Config{}, creds,
//	    pixelwalker.LogErrors(logrus.StandardLogger()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client.AddCallback(packet.KindPlayerChat,
//	    pixelwalker.Handle(func(p *packet.PlayerChatPacket) error {
//	        if p.Message == ".ping" {
//	            return client.Send(packet.KindPlayerChat, &packet.PlayerChatPacket{Message: "pong"})
//	        }
//	        return nil
//	    }),
//	)
//
//	if err := client.Init(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.JoinWorld(ctx, worldID, nil); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
package pixelwalker
