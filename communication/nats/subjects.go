package nats

import "github.com/guildhall/auction/auctiontypes"

const subjectRoot = "auction.channel"

func PublicSubject(channel string) string {
	return subjectRoot + "." + channel + ".public"
}

func HiddenSubject(channel string) string {
	return subjectRoot + "." + channel + ".hidden"
}

func SubjectFor(message auctiontypes.AuctionMessage) string {
	if message.Hidden {
		return HiddenSubject(message.Channel)
	}
	return PublicSubject(message.Channel)
}
