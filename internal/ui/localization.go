package ui

import "github.com/ytget/puller/internal/model"

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyDownload          = "download"
	KeyClear             = "clear"
	KeyOpenFolder        = "open_folder"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyURLs              = "urls"
	KeyURLsPlaceholder   = "urls_placeholder"
	KeyFileCount         = "file_count"
	KeyFileCountSync     = "file_count_sync"
	KeyExpandPlaylists   = "expand_playlists"
	KeyOutputDirectory   = "output_directory"
	KeyMaxWorkers        = "max_workers"
	KeyDownloaderBinary  = "downloader_binary"
	KeySortSpec          = "sort_spec"
	KeyOutputExt         = "output_ext"
	KeyRestartRequired   = "restart_required"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeySettingsSaved     = "settings_saved"
	KeyStatusIdle        = "status_idle"
	KeyStatusSubmitting  = "status_submitting"
	KeyStatusRunning     = "status_running"
	KeyStatusExpanding   = "status_expanding"
	KeyInvalidFileCount  = "invalid_file_count"
	KeyBatchRunning      = "batch_running"
	KeyErrorOpeningDir   = "error_opening_dir"
	KeyErrorSubmitting   = "error_submitting"
	KeySystemLanguage    = "system_language"
	KeyDownloadSettings  = "download_settings"
	KeyInterfaceSettings = "interface_settings"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// StatusText returns the label shown for a batch status
func (l *Localization) StatusText(status model.BatchStatus) string {
	switch status {
	case model.BatchStatusSubmitting:
		return l.GetText(KeyStatusSubmitting)
	case model.BatchStatusRunning:
		return l.GetText(KeyStatusRunning)
	default:
		return l.GetText(KeyStatusIdle)
	}
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "Puller",
		KeyDownload:          "Download",
		KeyClear:             "Clear",
		KeyOpenFolder:        "Open folder",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyURLs:              "URLs",
		KeyURLsPlaceholder:   "One video URL per line",
		KeyFileCount:         "File count",
		KeyFileCountSync:     "File count sync",
		KeyExpandPlaylists:   "Expand playlists",
		KeyOutputDirectory:   "Output Directory",
		KeyMaxWorkers:        "Max Concurrent Downloads",
		KeyDownloaderBinary:  "Downloader Binary",
		KeySortSpec:          "Format Sort",
		KeyOutputExt:         "Output Extension",
		KeyRestartRequired:   "Directory and concurrency changes apply after restart.",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyStatusIdle:        "Ready",
		KeyStatusSubmitting:  "Submitting...",
		KeyStatusRunning:     "Downloading...",
		KeyStatusExpanding:   "Expanding playlists...",
		KeyInvalidFileCount:  "File count must be an integer",
		KeyBatchRunning:      "A batch is still running",
		KeyErrorOpeningDir:   "Error opening folder",
		KeyErrorSubmitting:   "Error submitting batch",
		KeySystemLanguage:    "System Default",
		KeyDownloadSettings:  "Download Settings",
		KeyInterfaceSettings: "Interface Settings",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "Puller",
		KeyDownload:          "Скачать",
		KeyClear:             "Очистить",
		KeyOpenFolder:        "Открыть папку",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyURLs:              "Ссылки",
		KeyURLsPlaceholder:   "Одна ссылка на строку",
		KeyFileCount:         "Номер файла",
		KeyFileCountSync:     "Синхронизировать номер",
		KeyExpandPlaylists:   "Раскрывать плейлисты",
		KeyOutputDirectory:   "Папка загрузки",
		KeyMaxWorkers:        "Макс. одновременных загрузок",
		KeyDownloaderBinary:  "Программа загрузки",
		KeySortSpec:          "Сортировка форматов",
		KeyOutputExt:         "Расширение файла",
		KeyRestartRequired:   "Папка и число загрузок применяются после перезапуска.",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyStatusIdle:        "Готово",
		KeyStatusSubmitting:  "Отправка...",
		KeyStatusRunning:     "Загрузка...",
		KeyStatusExpanding:   "Раскрытие плейлистов...",
		KeyInvalidFileCount:  "Номер файла должен быть целым числом",
		KeyBatchRunning:      "Предыдущая загрузка ещё идёт",
		KeyErrorOpeningDir:   "Ошибка открытия папки",
		KeyErrorSubmitting:   "Ошибка запуска загрузки",
		KeySystemLanguage:    "Системный",
		KeyDownloadSettings:  "Настройки загрузки",
		KeyInterfaceSettings: "Настройки интерфейса",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "Puller",
		KeyDownload:          "Baixar",
		KeyClear:             "Limpar",
		KeyOpenFolder:        "Abrir pasta",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyURLs:              "URLs",
		KeyURLsPlaceholder:   "Uma URL de vídeo por linha",
		KeyFileCount:         "Contador de arquivos",
		KeyFileCountSync:     "Sincronizar contador",
		KeyExpandPlaylists:   "Expandir playlists",
		KeyOutputDirectory:   "Diretório de Saída",
		KeyMaxWorkers:        "Max Downloads Simultâneos",
		KeyDownloaderBinary:  "Programa de Download",
		KeySortSpec:          "Ordenação de Formatos",
		KeyOutputExt:         "Extensão de Saída",
		KeyRestartRequired:   "Diretório e concorrência valem após reiniciar.",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyStatusIdle:        "Pronto",
		KeyStatusSubmitting:  "Enviando...",
		KeyStatusRunning:     "Baixando...",
		KeyStatusExpanding:   "Expandindo playlists...",
		KeyInvalidFileCount:  "O contador deve ser um número inteiro",
		KeyBatchRunning:      "Um lote ainda está em execução",
		KeyErrorOpeningDir:   "Erro ao abrir pasta",
		KeyErrorSubmitting:   "Erro ao enviar lote",
		KeySystemLanguage:    "Padrão do Sistema",
		KeyDownloadSettings:  "Configurações de Download",
		KeyInterfaceSettings: "Configurações de Interface",
	}
}
