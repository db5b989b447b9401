package main

import (
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/ukcrimestats/arrests_dashboard/domain/models"
	"github.com/ukcrimestats/arrests_dashboard/plot"
)

// Telegram rejects photo uploads past roughly this size; larger charts are
// delivered as documents instead.
const maxSizePhoto = 150000

// sendFigures renders every chart and delivers it to the chat in figure
// order.
func sendFigures(api *tgbotapi.BotAPI, chatID int64, figures []models.Figure) error {
	for i, fig := range figures {
		graph, err := plot.DrawFigure(fig)
		if err != nil {
			return err
		}
		if err := sendFigureGraph(api, chatID, graph, i, fig.Layout.Title); err != nil {
			return err
		}
	}
	return nil
}

func sendFigureGraph(api *tgbotapi.BotAPI, chatID int64, graph []byte, position int, title string) error {
	fileName := fmt.Sprintf("figure-%d_%s_%s.png",
		position,
		slugify(title),
		time.Now().Format("20060102-150405"))

	pngFile := tgbotapi.FileBytes{
		Name:  fileName,
		Bytes: graph,
	}
	caption := fmt.Sprintf("Figure %d: %s", position, title)

	var err error
	if len(graph) < maxSizePhoto {
		msg := tgbotapi.NewPhotoUpload(chatID, pngFile)
		msg.Caption = caption
		_, err = api.Send(msg)
	} else {
		msg := tgbotapi.NewDocumentUpload(chatID, pngFile)
		msg.Caption = caption
		_, err = api.Send(msg)
	}
	if err != nil {
		log.Printf("error sending figure %d (%s): %v", position, title, err)
		return err
	}
	return nil
}
