package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bodystats-bot/internal/config"
	"bodystats-bot/internal/model"
	"bodystats-bot/internal/repository"
	"bodystats-bot/internal/service"
)

const (
	menuLabelAdd      = "📊 Добавить измерения"
	menuLabelProgress = "📈 Показать прогресс"
	menuLabelHistory  = "📅 История за период"
	menuLabelHelp     = "ℹ️ Помощь"

	btnWeek  = "📅 За неделю"
	btnMonth = "📅 За месяц"
	btnQuart = "📅 За 3 месяца"
	btnAll   = "📅 За всё время"
	btnBack  = "🔙 Назад"
)

// historyDisplayLimit caps how many rows a history reply shows.
const historyDisplayLimit = 10

// Bot aggregates the Telegram API with the measurement services.
type Bot struct {
	api         *tgbotapi.BotAPI
	stats       *service.StatsService
	auth        *service.AuthService
	reminderSvc *service.ReminderService
	userRepo    *repository.UserRepository
	auditRepo   *repository.AuditRepository
	config      *config.Config

	mu       sync.Mutex
	awaiting map[int64]bool // users we expect measurement input from
}

func New(token string, stats *service.StatsService, auth *service.AuthService, reminderSvc *service.ReminderService, userRepo *repository.UserRepository, auditRepo *repository.AuditRepository, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:         api,
		stats:       stats,
		auth:        auth,
		reminderSvc: reminderSvc,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		config:      cfg,
		awaiting:    make(map[int64]bool),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.Printf("handle message: %v", err)
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	// /id works for everyone: a locked-out user needs it to request access.
	if msg.IsCommand() && msg.Command() == "id" {
		return b.handleID(msg)
	}

	action := describeAction(msg)
	if !b.auth.IsAuthorized(msg.From.ID, msg.From.UserName) {
		return b.refuse(ctx, msg, action)
	}

	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		log.Printf("upsert user %d: %v", msg.From.ID, err)
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s", msg.From.ID, msg.Command())
		return b.handleCommand(ctx, msg)
	}

	if b.isAwaitingInput(msg.From.ID) {
		return b.handleMeasurementInput(msg)
	}

	return b.handleMenu(msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(msg)
	case "progress":
		return b.handleProgress(msg)
	case "cancel":
		b.clearAwaiting(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Ввод измерений отменён.")
	case "denied":
		return b.handleDenied(ctx, msg)
	default:
		return b.sendText(msg.Chat.ID, "Команда не поддерживается. Загляни в /help.")
	}
}

func (b *Bot) handleMenu(msg *tgbotapi.Message) error {
	switch strings.TrimSpace(msg.Text) {
	case menuLabelAdd:
		return b.startMeasurementInput(msg)
	case menuLabelProgress:
		return b.handleProgress(msg)
	case menuLabelHistory:
		return b.sendWithReplyMarkup(msg.Chat.ID, "📅 Выбери период для просмотра истории:", historyKeyboard())
	case btnWeek:
		return b.handleHistory(msg, service.WindowWeek, "неделю")
	case btnMonth:
		return b.handleHistory(msg, service.WindowMonth, "месяц")
	case btnQuart:
		return b.handleHistory(msg, service.WindowQuarter, "3 месяца")
	case btnAll:
		return b.handleHistory(msg, service.WindowAll, "всё время")
	case btnBack:
		return b.sendText(msg.Chat.ID, "Главное меню:")
	case menuLabelHelp:
		return b.handleHelp(msg)
	default:
		return b.sendText(msg.Chat.ID, "🤔 Не понимаю эту команду. Используй кнопки меню или /help для справки.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "друг"
	}

	text := fmt.Sprintf(
		"Привет, %s! 👋\n<b>Я бот для отслеживания веса и объёмов тела.</b>\n\n"+
			"Что я умею:\n"+
			"📊 Сохранять твои измерения (вес, рост, объёмы)\n"+
			"📈 Показывать прогресс и изменения\n"+
			"📅 Отображать историю за разные периоды\n"+
			"💾 Все данные хранятся локально и безопасно\n\n"+
			"Используй кнопки меню для навигации!",
		escape(name),
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "🔧 <b>Как пользоваться ботом</b>\n\n" +
		"📊 <b>Добавить измерения</b>\n" +
		"Введи данные в одной строке через пробел:\n" +
		"<code>вес рост талия бёдра грудь</code>\n" +
		"Обязателен только вес, остальное можно опустить.\n" +
		"Пример: <code>70.5 175 80 95 90</code> или просто <code>70.5</code>\n\n" +
		"📈 <b>Показать прогресс</b> — сравнение с предыдущим измерением.\n" +
		"📅 <b>История за период</b> — неделя, месяц, 3 месяца или всё время.\n" +
		"🆔 /id — узнать свой Telegram ID.\n" +
		"⏪ /cancel — отменить ввод измерений.\n\n" +
		"💡 Измеряйся в одно и то же время дня и веди записи регулярно."
	return b.sendText(msg.Chat.ID, text)
}

// handleID answers regardless of the access policy.
func (b *Bot) handleID(msg *tgbotapi.Message) error {
	userID := b.stats.WhoAmI(msg.From.ID)
	username := msg.From.UserName
	if username == "" {
		username = "не указан"
	} else {
		username = "@" + username
	}
	text := fmt.Sprintf(
		"🆔 <b>Твоя информация</b>\n"+
			"👤 Имя: %s\n"+
			"🆔 ID: <code>%d</code>\n"+
			"📝 Username: %s\n\n"+
			"Отправь свой ID администратору бота, чтобы получить доступ.",
		escape(msg.From.FirstName), userID, escape(username),
	)
	msgOut := tgbotapi.NewMessage(msg.Chat.ID, text)
	msgOut.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msgOut)
	return err
}

func (b *Bot) handleDenied(ctx context.Context, msg *tgbotapi.Message) error {
	attempts, err := b.auditRepo.ListRecent(ctx, 10)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Не удалось получить журнал: %s", escape(err.Error())))
	}
	if len(attempts) == 0 {
		return b.sendText(msg.Chat.ID, "🔒 Отклонённых запросов не было.")
	}
	var builder strings.Builder
	builder.WriteString("🔒 <b>Последние отклонённые запросы</b>\n")
	for _, attempt := range attempts {
		name := attempt.Username
		if name == "" {
			name = "—"
		}
		builder.WriteString(fmt.Sprintf(
			"• %s · id %d (@%s) · %s\n",
			attempt.CreatedAt.Format("2006-01-02 15:04"), attempt.UserID, escape(name), escape(attempt.Action),
		))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) startMeasurementInput(msg *tgbotapi.Message) error {
	b.setAwaiting(msg.From.ID)
	text := "📊 <b>Добавление новых измерений</b>\n\n" +
		"Введи данные в одной строке через пробел:\n" +
		"<code>вес рост талия бёдра грудь</code>\n\n" +
		"Пример: <code>70.5 175 80 95 90</code>\n\n" +
		"• Вес в кг — обязательно\n" +
		"• Рост, талия, бёдра, грудь в см — по желанию, в этом порядке"
	return b.sendWithReplyMarkup(msg.Chat.ID, text, tgbotapi.NewRemoveKeyboard(true))
}

func (b *Bot) handleMeasurementInput(msg *tgbotapi.Message) error {
	defer b.clearAwaiting(msg.From.ID)

	input, err := parseMeasurements(msg.Text)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf(
			"❌ <b>Ошибка ввода данных:</b>\n%s\n\n"+
				"Введи данные в формате: <code>вес рост талия бёдра грудь</code>\n"+
				"Пример: <code>70.5 175 80 95 90</code>",
			escape(err.Error()),
		))
	}

	report, err := b.stats.SubmitMeasurement(msg.From.ID, msg.From.UserName, input)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	log.Printf("[info] record saved for user %d", msg.From.ID)

	var builder strings.Builder
	builder.WriteString("✅ <b>Измерения успешно сохранены!</b>\n\n")
	builder.WriteString("📊 Твои новые показатели:\n")
	builder.WriteString(formatRecord(report.Current))
	if report.Delta != nil {
		builder.WriteString("\n📈 <b>Изменения с прошлого раза:</b>\n")
		builder.WriteString(formatDeltas(report.Delta))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleProgress(msg *tgbotapi.Message) error {
	report, err := b.stats.GetProgress(msg.From.ID, msg.From.UserName)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	var builder strings.Builder
	builder.WriteString("📊 <b>Текущие показатели:</b>\n")
	builder.WriteString(fmt.Sprintf("📅 Дата: %s\n", report.Current.Date.Format("2006-01-02")))
	builder.WriteString(formatRecord(report.Current))
	if report.Delta != nil {
		builder.WriteString("\n📈 <b>Изменения с прошлого раза:</b>\n")
		builder.WriteString(formatDeltas(report.Delta))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleHistory(msg *tgbotapi.Message, window service.Window, periodName string) error {
	report, err := b.stats.GetHistory(msg.From.ID, msg.From.UserName, window)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	if len(report.Records) == 0 {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("📅 За %s записей не найдено.", periodName))
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📅 <b>История за %s:</b>\n\n", periodName))

	shown := report.Records
	if len(shown) > historyDisplayLimit {
		shown = shown[len(shown)-historyDisplayLimit:]
	}
	for i, rec := range shown {
		builder.WriteString(fmt.Sprintf("<b>%d. %s</b>\n", i+1, rec.Date.Format("2006-01-02")))
		builder.WriteString(formatHistoryRow(rec))
	}

	if report.Summary != nil {
		builder.WriteString("\n📊 <b>Общие изменения за период:</b>\n")
		builder.WriteString(formatDeltas(report.Summary))
	}
	if len(report.Records) > historyDisplayLimit {
		builder.WriteString(fmt.Sprintf("\n📝 Показаны последние %d из %d записей", historyDisplayLimit, len(report.Records)))
	}

	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

// refuse sends the access-denied reply and records the attempt.
func (b *Bot) refuse(ctx context.Context, msg *tgbotapi.Message, action string) error {
	username := msg.From.UserName
	display := username
	if display == "" {
		display = "не указан"
	}

	log.Printf("[warn] unauthorized access: %d (@%s) - %s", msg.From.ID, username, action)
	if b.config.LogDenied {
		if err := b.auditRepo.RecordDenied(ctx, msg.From.ID, username, action); err != nil {
			log.Printf("audit: %v", err)
		}
	}

	text := fmt.Sprintf(
		"🚫 <b>Доступ запрещён</b>\n\n"+
			"У тебя нет доступа к этому боту.\n"+
			"Обратись к администратору для получения доступа.\n\n"+
			"👤 Твой ID: <code>%d</code>\n"+
			"📝 Username: @%s\n\n"+
			"Узнать свой ID можно также командой /id.",
		msg.From.ID, escape(display),
	)
	msgOut := tgbotapi.NewMessage(msg.Chat.ID, text)
	msgOut.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msgOut)
	return err
}

// SendDailyReminders messages every known user who has not logged today.
func (b *Bot) SendDailyReminders(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		text, due, err := b.reminderSvc.DailyReminder(user, now)
		if err != nil {
			log.Printf("build reminder for user %d: %v", user.TelegramID, err)
			continue
		}
		if !due {
			continue
		}
		if err := b.sendText(user.TelegramID, text); err != nil {
			log.Printf("send reminder to %d: %v", user.TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) replyError(chatID int64, err error) error {
	var vErr *repository.ValidationError
	var sErr *repository.StorageError
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		return b.sendText(chatID, "🚫 У тебя нет доступа к этому боту. Узнай свой ID командой /id.")
	case errors.Is(err, service.ErrEmptyHistory):
		return b.sendText(chatID, "📊 У тебя пока нет записей измерений.\nНажми «"+menuLabelAdd+"», чтобы начать!")
	case errors.Is(err, service.ErrInvalidWindow):
		log.Printf("invalid history window: %v", err)
		return b.sendText(chatID, "⚠️ Неизвестный период истории.")
	case errors.As(err, &vErr):
		return b.sendText(chatID, fmt.Sprintf("❌ <b>Ошибка ввода данных:</b>\n%s", escape(vErr.Hint)))
	case errors.As(err, &sErr):
		log.Printf("[error] %v", sErr)
		return b.sendText(chatID, "⚠️ Не удалось прочитать сохранённые данные. Попробуй позже.")
	default:
		log.Printf("[error] %v", err)
		return b.sendText(chatID, "❌ Что-то пошло не так. Попробуй ещё раз.")
	}
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) setAwaiting(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.awaiting[userID] = true
}

func (b *Bot) isAwaitingInput(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.awaiting[userID]
}

func (b *Bot) clearAwaiting(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.awaiting, userID)
}

// parseMeasurements parses up to five space-separated numbers in the fixed
// order weight height waist hips chest. A comma decimal separator is accepted.
func parseMeasurements(text string) (service.MeasurementInput, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || len(fields) > 5 {
		return service.MeasurementInput{}, errors.New("нужно от 1 до 5 чисел: вес рост талия бёдра грудь")
	}

	values := make([]float64, len(fields))
	for i, field := range fields {
		value, err := strconv.ParseFloat(strings.ReplaceAll(field, ",", "."), 64)
		if err != nil {
			return service.MeasurementInput{}, fmt.Errorf("«%s» не похоже на число", field)
		}
		values[i] = value
	}

	input := service.MeasurementInput{Weight: values[0]}
	if len(values) > 1 {
		input.Height = &values[1]
	}
	if len(values) > 2 {
		input.Waist = &values[2]
	}
	if len(values) > 3 {
		input.Hips = &values[3]
	}
	if len(values) > 4 {
		input.Chest = &values[4]
	}
	return input, nil
}

func describeAction(msg *tgbotapi.Message) string {
	if msg.IsCommand() {
		return "/" + msg.Command()
	}
	text := strings.TrimSpace(msg.Text)
	if len(text) > 64 {
		text = text[:64]
	}
	return text
}

func formatRecord(rec model.Record) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("⚖️ Вес: %.1f кг\n", rec.Weight))
	if rec.Height != nil {
		builder.WriteString(fmt.Sprintf("📏 Рост: %.0f см\n", *rec.Height))
	}
	if rec.Waist != nil {
		builder.WriteString(fmt.Sprintf("📐 Талия: %.1f см\n", *rec.Waist))
	}
	if rec.Hips != nil {
		builder.WriteString(fmt.Sprintf("🍑 Бёдра: %.1f см\n", *rec.Hips))
	}
	if rec.Chest != nil {
		builder.WriteString(fmt.Sprintf("📏 Грудь: %.1f см\n", *rec.Chest))
	}
	return builder.String()
}

func formatHistoryRow(rec model.Record) string {
	parts := []string{fmt.Sprintf("⚖️ %.1fкг", rec.Weight)}
	if rec.Waist != nil {
		parts = append(parts, fmt.Sprintf("📐 %.1fсм", *rec.Waist))
	}
	if rec.Hips != nil {
		parts = append(parts, fmt.Sprintf("🍑 %.1fсм", *rec.Hips))
	}
	if rec.Chest != nil {
		parts = append(parts, fmt.Sprintf("📏 %.1fсм", *rec.Chest))
	}
	return strings.Join(parts, " | ") + "\n\n"
}

func formatDeltas(deltas *model.FieldDeltas) string {
	var builder strings.Builder
	if deltas.Weight != nil {
		builder.WriteString(fmt.Sprintf("⚖️ Вес: %s\n", formatChange(*deltas.Weight, "кг")))
	}
	if deltas.Height != nil {
		builder.WriteString(fmt.Sprintf("📏 Рост: %s\n", formatChange(*deltas.Height, "см")))
	}
	if deltas.Waist != nil {
		builder.WriteString(fmt.Sprintf("📐 Талия: %s\n", formatChange(*deltas.Waist, "см")))
	}
	if deltas.Hips != nil {
		builder.WriteString(fmt.Sprintf("🍑 Бёдра: %s\n", formatChange(*deltas.Hips, "см")))
	}
	if deltas.Chest != nil {
		builder.WriteString(fmt.Sprintf("📏 Грудь: %s\n", formatChange(*deltas.Chest, "см")))
	}
	return builder.String()
}

func formatChange(value float64, unit string) string {
	switch {
	case value > 0:
		return fmt.Sprintf("+%.1f %s 📈", value, unit)
	case value < 0:
		return fmt.Sprintf("%.1f %s 📉", value, unit)
	default:
		return "без изменений ➡️"
	}
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelAdd),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelProgress),
			tgbotapi.NewKeyboardButton(menuLabelHistory),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func historyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnWeek),
			tgbotapi.NewKeyboardButton(btnMonth),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnQuart),
			tgbotapi.NewKeyboardButton(btnAll),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBack),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func escape(s string) string {
	return html.EscapeString(s)
}
