package locale

import "golang.org/x/text/language"

// Message keys. The English text is the key; translations live in
// translations below.
const (
	MsgConnected       = "Connected to %s"
	MsgFoundContainer  = "Found container %s (%s)"
	MsgCurrentImage    = "Current image: %s"
	MsgReplaceMode     = "Running in replace mode with backup tag %s"
	MsgRestoreMode     = "Running in restore mode with restore tag %s"
	MsgStopped         = "Container %s stopped"
	MsgBackupCreated   = "Backup image tagged as %s"
	MsgPathNotFound    = "Input path not found, skipping: %s"
	MsgInputsExpanded  = "Found %d input files"
	MsgAddedToArchive  = "Added %s to archive as %s"
	MsgArchiveDeleted  = "Temporary archive deleted"
	MsgFilesCopied     = "Copied %d files to %s"
	MsgCommitted       = "Committed container changes as %s"
	MsgRestarted       = "Container %s restarted"
	MsgBackupFound     = "Backup image %s found"
	MsgRemoved         = "Container %s removed"
	MsgCreated         = "Created container %s from %s"
	MsgStartedRestored = "Restored container %s started"
	MsgCompleted       = "Operation completed successfully"
	MsgFailed          = "Operation failed at step %s: %v"

	MsgProfilesHeader   = "Current profiles:"
	MsgNoProfiles       = "No profiles found."
	MsgProfileSaved     = "Profile %s saved"
	MsgExecutingProfile = "Executing profile %s"
	MsgProfileSkipped   = "Skipping profile %s: %v"
	MsgInvalidInput     = "Invalid input: %v"
	MsgBatchSummary     = "%d of %d requests succeeded"
)

// Flag help keys.
const (
	HelpInput        = "CSV list of files or directories to transfer"
	HelpOutput       = "Target path in the container"
	HelpTarget       = "Target container name or ID"
	HelpHost         = "Runtime endpoint address"
	HelpReplaceTag   = "Backup tag to save the original container state"
	HelpRestoreTag   = "Tag to restore (reverting to the backup version)"
	HelpName         = "Label for this request in logs"
	HelpSaveProfile  = "Save the given options under a profile name"
	HelpLoadProfiles = "Comma-separated profile names to load and run"
	HelpListProfiles = "List saved profiles"
	HelpLanguage     = "Language for messages (BCP 47 tag)"
	HelpConfig       = "Path to the YAML config file"
	HelpLogLevel     = "Log level (debug, info, warn, error)"
	HelpLogFormat    = "Log format (auto, text, json)"
	HelpProfilesDir  = "Directory holding saved profiles"
)

// FlagHelp maps a flag name to its help message key.
var FlagHelp = map[string]string{
	"input":         HelpInput,
	"output":        HelpOutput,
	"target":        HelpTarget,
	"host":          HelpHost,
	"replace-tag":   HelpReplaceTag,
	"restore-tag":   HelpRestoreTag,
	"name":          HelpName,
	"save-profile":  HelpSaveProfile,
	"load-profiles": HelpLoadProfiles,
	"list-profiles": HelpListProfiles,
	"language":      HelpLanguage,
	"config":        HelpConfig,
	"log-level":     HelpLogLevel,
	"log-format":    HelpLogFormat,
	"profiles-dir":  HelpProfilesDir,
}

var translations = map[string]map[language.Tag]string{
	MsgConnected: {
		language.German:  "Verbunden mit %s",
		language.Spanish: "Conectado a %s",
	},
	MsgFoundContainer: {
		language.German:  "Container %s gefunden (%s)",
		language.Spanish: "Contenedor %s encontrado (%s)",
	},
	MsgCurrentImage: {
		language.German:  "Aktuelles Image: %s",
		language.Spanish: "Imagen actual: %s",
	},
	MsgReplaceMode: {
		language.German:  "Ersetzungsmodus mit Backup-Tag %s",
		language.Spanish: "Modo de reemplazo con etiqueta de respaldo %s",
	},
	MsgRestoreMode: {
		language.German:  "Wiederherstellungsmodus mit Tag %s",
		language.Spanish: "Modo de restauración con etiqueta %s",
	},
	MsgStopped: {
		language.German:  "Container %s gestoppt",
		language.Spanish: "Contenedor %s detenido",
	},
	MsgBackupCreated: {
		language.German:  "Backup-Image als %s getaggt",
		language.Spanish: "Imagen de respaldo etiquetada como %s",
	},
	MsgPathNotFound: {
		language.German:  "Eingabepfad nicht gefunden, wird übersprungen: %s",
		language.Spanish: "Ruta de entrada no encontrada, se omite: %s",
	},
	MsgInputsExpanded: {
		language.German:  "%d Eingabedateien gefunden",
		language.Spanish: "Se encontraron %d archivos de entrada",
	},
	MsgAddedToArchive: {
		language.German:  "%s als %s zum Archiv hinzugefügt",
		language.Spanish: "%s añadido al archivo como %s",
	},
	MsgArchiveDeleted: {
		language.German:  "Temporäres Archiv gelöscht",
		language.Spanish: "Archivo temporal eliminado",
	},
	MsgFilesCopied: {
		language.German:  "%d Dateien nach %s kopiert",
		language.Spanish: "%d archivos copiados a %s",
	},
	MsgCommitted: {
		language.German:  "Containeränderungen als %s committet",
		language.Spanish: "Cambios del contenedor confirmados como %s",
	},
	MsgRestarted: {
		language.German:  "Container %s neu gestartet",
		language.Spanish: "Contenedor %s reiniciado",
	},
	MsgBackupFound: {
		language.German:  "Backup-Image %s gefunden",
		language.Spanish: "Imagen de respaldo %s encontrada",
	},
	MsgRemoved: {
		language.German:  "Container %s entfernt",
		language.Spanish: "Contenedor %s eliminado",
	},
	MsgCreated: {
		language.German:  "Container %s aus %s erstellt",
		language.Spanish: "Contenedor %s creado a partir de %s",
	},
	MsgStartedRestored: {
		language.German:  "Wiederhergestellter Container %s gestartet",
		language.Spanish: "Contenedor restaurado %s iniciado",
	},
	MsgCompleted: {
		language.German:  "Vorgang erfolgreich abgeschlossen",
		language.Spanish: "Operación completada correctamente",
	},
	MsgFailed: {
		language.German:  "Vorgang bei Schritt %s fehlgeschlagen: %v",
		language.Spanish: "La operación falló en el paso %s: %v",
	},
	MsgProfilesHeader: {
		language.German:  "Aktuelle Profile:",
		language.Spanish: "Perfiles actuales:",
	},
	MsgNoProfiles: {
		language.German:  "Keine Profile gefunden.",
		language.Spanish: "No se encontraron perfiles.",
	},
	MsgProfileSaved: {
		language.German:  "Profil %s gespeichert",
		language.Spanish: "Perfil %s guardado",
	},
	MsgExecutingProfile: {
		language.German:  "Profil %s wird ausgeführt",
		language.Spanish: "Ejecutando el perfil %s",
	},
	MsgProfileSkipped: {
		language.German:  "Profil %s wird übersprungen: %v",
		language.Spanish: "Se omite el perfil %s: %v",
	},
	MsgInvalidInput: {
		language.German:  "Ungültige Eingabe: %v",
		language.Spanish: "Entrada no válida: %v",
	},
	MsgBatchSummary: {
		language.German:  "%d von %d Anfragen erfolgreich",
		language.Spanish: "%d de %d solicitudes completadas",
	},
	HelpInput: {
		language.German:  "CSV-Liste der zu übertragenden Dateien oder Verzeichnisse",
		language.Spanish: "Lista CSV de archivos o directorios a transferir",
	},
	HelpOutput: {
		language.German:  "Zielpfad im Container",
		language.Spanish: "Ruta de destino en el contenedor",
	},
	HelpTarget: {
		language.German:  "Name oder ID des Zielcontainers",
		language.Spanish: "Nombre o ID del contenedor de destino",
	},
	HelpHost: {
		language.German:  "Adresse des Runtime-Endpunkts",
		language.Spanish: "Dirección del punto de conexión del runtime",
	},
	HelpReplaceTag: {
		language.German:  "Backup-Tag zum Sichern des ursprünglichen Containerzustands",
		language.Spanish: "Etiqueta de respaldo para guardar el estado original del contenedor",
	},
	HelpRestoreTag: {
		language.German:  "Wiederherzustellender Tag (Rückkehr zur Backup-Version)",
		language.Spanish: "Etiqueta a restaurar (volver a la versión de respaldo)",
	},
	HelpName: {
		language.German:  "Bezeichnung dieser Anfrage in den Logs",
		language.Spanish: "Etiqueta de esta solicitud en los registros",
	},
	HelpSaveProfile: {
		language.German:  "Angegebene Optionen unter einem Profilnamen speichern",
		language.Spanish: "Guardar las opciones indicadas con un nombre de perfil",
	},
	HelpLoadProfiles: {
		language.German:  "Kommagetrennte Profilnamen zum Laden und Ausführen",
		language.Spanish: "Nombres de perfil separados por comas para cargar y ejecutar",
	},
	HelpListProfiles: {
		language.German:  "Gespeicherte Profile auflisten",
		language.Spanish: "Listar los perfiles guardados",
	},
	HelpLanguage: {
		language.German:  "Sprache der Meldungen (BCP-47-Tag)",
		language.Spanish: "Idioma de los mensajes (etiqueta BCP 47)",
	},
	HelpConfig: {
		language.German:  "Pfad zur YAML-Konfigurationsdatei",
		language.Spanish: "Ruta al archivo de configuración YAML",
	},
	HelpLogLevel: {
		language.German:  "Log-Level (debug, info, warn, error)",
		language.Spanish: "Nivel de registro (debug, info, warn, error)",
	},
	HelpLogFormat: {
		language.German:  "Log-Format (auto, text, json)",
		language.Spanish: "Formato de registro (auto, text, json)",
	},
	HelpProfilesDir: {
		language.German:  "Verzeichnis mit gespeicherten Profilen",
		language.Spanish: "Directorio con los perfiles guardados",
	},
}
